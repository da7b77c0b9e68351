package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

const PlaceHolderText = "Type a command for your company..."

// money formats dollar amounts with thousands separators.
var money = message.NewPrinter(language.English)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	api       *apiClient
	gameState *sim.GameState

	logViewport  viewport.Model
	dashViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	statusLine   string

	// Idea entry state
	showIdeaModal bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type gameStateMsg struct {
	gameState *sim.GameState
	err       error
}

type gameCreatedMsg struct {
	gameState *sim.GameState
	err       error
}

type chatResultMsg struct {
	agentName string
	result    *sim.ChatResult
	err       error
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	dashPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")) // red

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // bright red
			Bold(true)

	ceoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func NewConsoleUI(api *apiClient) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = "Describe your startup idea..."
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	dashVp := viewport.New(20, 20)

	return ConsoleUI{
		api:           api,
		textarea:      ta,
		logViewport:   logVp,
		dashViewport:  dashVp,
		showIdeaModal: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func sentimentStyle(s sim.Sentiment) lipgloss.Style {
	switch s {
	case sim.SentimentPositive:
		return positiveStyle
	case sim.SentimentNegative:
		return negativeStyle
	case sim.SentimentCritical:
		return criticalStyle
	default:
		return lipgloss.NewStyle()
	}
}

// writeLogContent rebuilds the log feed for the current viewport width.
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("FOUNDERMODE") + "\n\n")
	content.WriteString("Run your startup. Type commands, play cards, survive.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(logWidth-6, 10))) + "\n\n")

	if m.gameState != nil {
		for _, entry := range m.gameState.History {
			prefix := fmt.Sprintf("[W%d %s] ", entry.Turn, entry.Source)
			body := wordwrap.String(entry.Text, max(logWidth-len(prefix), 20))
			if entry.Source == sim.SourceCEO {
				content.WriteString(ceoStyle.Render(prefix) + body + "\n\n")
			} else {
				content.WriteString(sourceStyle.Render(prefix) + sentimentStyle(entry.Sentiment).Render(body) + "\n\n")
			}
		}
	}

	if m.statusLine != "" {
		content.WriteString(m.statusLine + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

// writeDashboard renders the company metrics panel.
func writeDashboard(gs *sim.GameState) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("DASHBOARD") + "\n\n")

	if gs.BusinessPlan != nil {
		content.WriteString(gs.BusinessPlan.Name + "\n")
	}
	content.WriteString(fmt.Sprintf("%s · Week %d\n\n", gs.Stage, gs.Turn))

	content.WriteString(money.Sprintf("Cash:    $%d\n", gs.Cash))
	if gs.LastCashChange != 0 {
		content.WriteString(money.Sprintf("Burn:    %+d\n", gs.LastCashChange))
	}
	// Runway in weeks at the current burn rate.
	if gs.LastCashChange < 0 {
		content.WriteString(fmt.Sprintf("Runway:  %d weeks\n", gs.Cash/-gs.LastCashChange))
	}
	content.WriteString(money.Sprintf("Users:   %d\n", gs.Users))
	content.WriteString(fmt.Sprintf("Rep:     %d/100\n", gs.Reputation))
	content.WriteString(fmt.Sprintf("Quality: %d/100\n\n", gs.ProductQuality))

	content.WriteString(titleStyle.Render("TEAM") + "\n")
	for _, a := range gs.Agents {
		content.WriteString(fmt.Sprintf("%s (%s)\n  %s · morale %d\n", a.Name, a.Role, a.Status, a.Morale))
	}
	content.WriteString("\n")

	if len(gs.Objectives) > 0 {
		content.WriteString(titleStyle.Render("OBJECTIVES") + "\n")
		for _, o := range gs.Objectives {
			mark := "[ ]"
			if o.IsCompleted {
				mark = "[x]"
			}
			content.WriteString(fmt.Sprintf("%s %s\n", mark, o.Description))
		}
		content.WriteString("\n")
	}

	if gs.ActiveEvent != nil {
		content.WriteString(titleStyle.Render("EVENT") + "\n")
		content.WriteString(fmt.Sprintf("%s: %s\n\n", gs.ActiveEvent.Type, gs.ActiveEvent.Title))
	}

	if len(gs.Hand) > 0 {
		content.WriteString(titleStyle.Render("HAND") + "\n")
		for i, card := range gs.Hand {
			content.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, card.Title, card.Cost))
		}
		content.WriteString("\n")
	}

	if len(gs.SuggestedCommands) > 0 {
		content.WriteString(titleStyle.Render("SUGGESTED") + "\n")
		for _, s := range gs.SuggestedCommands {
			content.WriteString("• " + s + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(titleStyle.Render("COMMANDS") + "\n")
	content.WriteString("• /card <n>: Play card\n")
	content.WriteString("• /chat <agent> <msg>\n")
	content.WriteString("• /market: Analyze\n")
	content.WriteString("• /copy: Copy last log\n")
	content.WriteString("• /restart: Restart\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m *ConsoleUI) resize() {
	logWidth := int(float64(m.width)*0.70) - 4
	dashWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 7
	m.dashViewport.Width = dashWidth - 2
	m.dashViewport.Height = m.height - 4
	m.textarea.SetWidth(logWidth - 4)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showIdeaModal {
		return m.updateIdeaModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		dvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.dashViewport, dvCmd = m.dashViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, dvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeLogContent()
		if m.gameState != nil {
			m.dashViewport.SetContent(writeDashboard(m.gameState))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.statusLine = ""
			m.progressTick = 0
			m.writeLogContent()
			return m, tea.Batch(m.execTurn(input), progressTick())
		}

	case gameStateMsg:
		m.loading = false
		if msg.err != nil {
			m.statusLine = errorStyle.Render("Error: " + msg.err.Error())
		} else {
			m.gameState = msg.gameState
			m.dashViewport.SetContent(writeDashboard(m.gameState))
		}
		m.writeLogContent()

	case chatResultMsg:
		m.loading = false
		if msg.err != nil {
			m.statusLine = errorStyle.Render("Error: " + msg.err.Error())
		} else {
			m.statusLine = sourceStyle.Render(msg.agentName+": ") + msg.result.Response
		}
		m.writeLogContent()
		return m, m.refreshGameState()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeLogContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.dashViewport, dvCmd = m.dashViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, dvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	m.textarea.Reset()

	switch cmd {
	case "/help":
		m.statusLine = promptStyle.Render("Type a command to run your company for a week, or use /card, /chat, /market, /copy, /restart.")
		m.writeLogContent()

	case "/card":
		if len(fields) < 2 {
			m.statusLine = errorStyle.Render("Usage: /card <number>")
			m.writeLogContent()
			return m, nil
		}
		idx := 0
		if _, err := fmt.Sscanf(fields[1], "%d", &idx); err != nil || idx < 1 || idx > len(m.gameState.Hand) {
			m.statusLine = errorStyle.Render("No such card in hand")
			m.writeLogContent()
			return m, nil
		}
		card := m.gameState.Hand[idx-1]
		m.loading = true
		m.statusLine = ""
		m.progressTick = 0
		m.writeLogContent()
		return m, tea.Batch(m.execCard(card.ID), progressTick())

	case "/chat":
		if len(fields) < 3 {
			m.statusLine = errorStyle.Render("Usage: /chat <agent name or id> <message>")
			m.writeLogContent()
			return m, nil
		}
		agent := m.findAgent(fields[1])
		if agent == nil {
			m.statusLine = errorStyle.Render("No agent named " + fields[1])
			m.writeLogContent()
			return m, nil
		}
		text := strings.Join(fields[2:], " ")
		m.loading = true
		m.progressTick = 0
		m.writeLogContent()
		return m, tea.Batch(m.execChat(agent.ID, agent.Name, text), progressTick())

	case "/market":
		m.loading = true
		m.statusLine = ""
		m.progressTick = 0
		m.writeLogContent()
		return m, tea.Batch(m.execMarket(), progressTick())

	case "/copy":
		if m.gameState != nil && len(m.gameState.History) > 0 {
			last := m.gameState.History[len(m.gameState.History)-1]
			if err := clipboard.WriteAll(last.Text); err != nil {
				m.statusLine = errorStyle.Render("Clipboard error: " + err.Error())
			} else {
				m.statusLine = promptStyle.Render("Copied latest log entry to clipboard.")
			}
		}
		m.writeLogContent()

	case "/restart":
		m.loading = true
		m.statusLine = ""
		m.progressTick = 0
		m.writeLogContent()
		return m, tea.Batch(m.execRestart(), progressTick())

	default:
		m.statusLine = errorStyle.Render("Unknown command: " + cmd)
		m.writeLogContent()
	}

	return m, nil
}

func (m *ConsoleUI) findAgent(nameOrID string) *sim.Agent {
	if m.gameState == nil {
		return nil
	}
	for i := range m.gameState.Agents {
		a := &m.gameState.Agents[i]
		if a.ID == nameOrID || strings.EqualFold(a.Name, nameOrID) {
			return a
		}
	}
	return nil
}

func (m ConsoleUI) execTurn(command string) tea.Cmd {
	return func() tea.Msg {
		gs, err := m.api.executeTurn(m.gameState.ID, command)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) execCard(cardID string) tea.Cmd {
	return func() tea.Msg {
		gs, err := m.api.playCard(m.gameState.ID, cardID)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) execMarket() tea.Cmd {
	return func() tea.Msg {
		gs, err := m.api.analyzeMarket(m.gameState.ID)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) execRestart() tea.Cmd {
	return func() tea.Msg {
		gs, err := m.api.restart(m.gameState.ID)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) execChat(agentID, agentName, text string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.api.chat(m.gameState.ID, agentID, text)
		return chatResultMsg{agentName, result, err}
	}
}

func (m ConsoleUI) refreshGameState() tea.Cmd {
	return func() tea.Msg {
		gs, err := m.api.getGame(m.gameState.ID)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) createGame(idea string) tea.Cmd {
	return func() tea.Msg {
		gs, err := m.api.createGame(idea, sim.LangEN)
		return gameCreatedMsg{gs, err}
	}
}

func (m ConsoleUI) updateIdeaModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case gameCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.gameState = msg.gameState
			m.showIdeaModal = false
			m.err = nil
			if m.width > 0 && m.height > 0 {
				m.resize()
			}
			m.textarea.Reset()
			m.textarea.Placeholder = PlaceHolderText
			m.textarea.Focus()
			m.writeLogContent()
			m.dashViewport.SetContent(writeDashboard(m.gameState))
			m.ready = true
		}
		return m, textarea.Blink

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			idea := strings.TrimSpace(m.textarea.Value())
			if idea == "" {
				return m, nil
			}
			m.loading = true
			return m, m.createGame(idea)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Walk away from your startup?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep building"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderIdeaModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	if m.loading {
		content.WriteString(modalTitleStyle.Render("Incorporating..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Generating your business plan and assembling the founding team..."))
	} else {
		content.WriteString(modalTitleStyle.Render("FOUNDERMODE"))
		content.WriteString("\n\n")
		content.WriteString("What's your startup idea?")
		content.WriteString("\n\n")
		content.WriteString(m.textarea.View())
		content.WriteString("\n")
		if m.err != nil {
			content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
		}
		content.WriteString(promptStyle.Render("Press Enter to found your company, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(64).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showIdeaModal {
		return m.renderIdeaModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.70) - 4
	dashWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(logWidth-4, 10))),
			m.textarea.View(),
		),
	)

	dashPanel := dashPanelStyle.Width(dashWidth).Height(m.height - 2).Render(
		m.dashViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, dashPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
