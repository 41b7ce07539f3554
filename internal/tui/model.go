package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"storyquote/internal/domain"
)

// Placeholder stands in for a structural label the story does not have.
const Placeholder = "—————"

// Model is the Bubble Tea model for the excerpt pager. It shows exactly
// one match per page with forward/backward navigation, capped at the
// result count.
type Model struct {
	service  domain.Searcher
	stories  []*domain.Story
	story    int
	input    textinput.Model
	viewport viewport.Model
	results  []domain.Match
	cursor   int
	status   string
	ready    bool
	searched bool
	keywords bool
}

// New creates the pager over the given search service and stories.
// defaultStory selects the initially targeted story if present.
func New(service domain.Searcher, stories []*domain.Story, defaultStory string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a word or phrase and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{service: service, stories: stories, input: ti, viewport: vp,
		status: "Loaded. Type to search, ctrl+r for a random quote."}
	for i, s := range stories {
		if s.ID == defaultStory {
			m.story = i
		}
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := pageBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + story line, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderPage())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.runSearch(q)
				m.viewport.SetContent(m.renderPage())
				return m, nil
			}
		case "ctrl+r":
			m.runRandom()
			m.viewport.SetContent(m.renderPage())
			return m, nil
		case "ctrl+k":
			m.keywords = !m.keywords
			if m.keywords {
				m.status = "Keyword mode: any word of the query matches."
			} else {
				m.status = "Exact mode: the whole query must match."
			}
			return m, nil
		case "tab":
			if len(m.stories) > 0 {
				m.story = (m.story + 1) % len(m.stories)
				m.status = "Searching " + m.stories[m.story].Title
			}
			return m, nil
		case "right", "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderPage())
				return m, nil
			}
		case "left", "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderPage())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) runSearch(q string) {
	if len(m.stories) == 0 {
		m.status = "No stories loaded."
		return
	}
	s := m.stories[m.story]
	res, err := m.service.Search(s.ID, q, !m.keywords)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
		return
	}
	m.status = fmt.Sprintf("%d quotes for %q in %s", len(res), q, s.Title)
	m.results = res
	m.cursor = 0
	m.searched = true
}

func (m *Model) runRandom() {
	res, err := m.service.RandomExcerpt()
	if err != nil {
		if errors.Is(err, domain.ErrStoryTooShort) || errors.Is(err, domain.ErrNoStories) {
			m.status = "No random quote available: " + err.Error()
		} else {
			m.status = "Error: " + err.Error()
		}
		return
	}
	// The excerpt may come from any story in the catalog; retarget the
	// pager so the header credits the story that was actually picked.
	m.status = "Randomly chosen quote."
	for i, s := range m.stories {
		if s.ID == res.StoryID {
			m.story = i
			m.status = fmt.Sprintf("Randomly chosen quote from %s.", s.Title)
			break
		}
	}
	m.results = []domain.Match{res}
	m.cursor = 0
	m.searched = true
}

// View renders the pager layout and current page.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Story Quote Search")
	storyLine := ""
	if len(m.stories) > 0 {
		s := m.stories[m.story]
		storyLine = dimStyle.Render(fmt.Sprintf("%s — %s", s.Title, s.Author))
	}
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	page := pageBoxStyle.Render(m.viewport.View())
	return header + "\n" + storyLine + "\n" + page + "\n" + input + "\n" + status
}

func (m Model) renderPage() string {
	if len(m.results) == 0 {
		if m.searched {
			return "No quotes found!"
		}
		return "No results yet."
	}
	r := m.results[m.cursor]
	head := fmt.Sprintf("%s | %s", labelText(r.Collection), labelText(r.Chapter))
	footer := dimStyle.Render(fmt.Sprintf("Page %d/%d", m.cursor+1, len(m.results)))
	body := renderEmphasis(r.Passage)
	if m.viewport.Width > 0 {
		body = wordwrap.String(body, m.viewport.Width)
	}
	return headerStyle.Render(head) + "\n\n" + body + "\n\n" + footer
}

func labelText(l domain.Label) string {
	if !l.Found {
		return Placeholder
	}
	return l.Text
}

var (
	pageBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	emphasisRe     = regexp.MustCompile(`__(.+?)__`)
)

// renderEmphasis swaps the engine's emphasis markers for a terminal
// highlight at the presentation boundary.
func renderEmphasis(passage string) string {
	return emphasisRe.ReplaceAllStringFunc(passage, func(s string) string {
		return highlightStyle.Render(strings.Trim(s, "_"))
	})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
