package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"pawnchess/internal/board"
	"pawnchess/internal/core"
	"pawnchess/internal/game"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdGames
	CmdLoad
	CmdMove
	CmdMoves
	CmdBoard
	CmdHistory
	CmdColor
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// LineReader is the line source of the terminal. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// lineScanner reads plain lines, for piped input where line editing makes no sense
type lineScanner struct {
	scanner *bufio.Scanner
}

// NewLineScanner wraps r as a LineReader without editing or history
func NewLineScanner(r io.Reader) LineReader {
	return &lineScanner{scanner: bufio.NewScanner(r)}
}

func (s *lineScanner) Readline() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *lineScanner) SetPrompt(string) {}

type CLI struct {
	input  LineReader
	output io.Writer
	theme  ColorTheme
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand reads and parses one line. End of input reads as quit.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	c.input.SetPrompt(prompt)
	line, err := c.input.Readline()
	if err == io.EOF {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}

	return ParseCommand(input), nil
}

// ParseCommand maps a line onto a command. Anything unrecognized is taken as a
// move, either "e2 e4" or "e2e4".
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Raw: input}
	case "games", "list":
		return &Command{Type: CmdGames, Raw: input}
	case "load":
		return &Command{Type: CmdLoad, Args: args, Raw: input}
	case "moves":
		return &Command{Type: CmdMoves, Args: args, Raw: input}
	case "board":
		return &Command{Type: CmdBoard, Raw: input}
	case "history":
		return &Command{Type: CmdHistory, Raw: input}
	case "color":
		return &Command{Type: CmdColor, Args: args, Raw: input}
	case "help", "?":
		return &Command{Type: CmdHelp, Raw: input}
	case "quit", "exit":
		return &Command{Type: CmdQuit, Raw: input}
	}

	if len(parts) == 1 && len(cmd) == 4 {
		return &Command{Type: CmdMove, Args: []string{cmd[:2], cmd[2:]}, Raw: input}
	}
	return &Command{Type: CmdMove, Args: parts, Raw: input}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) DisplayBoard(b board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < board.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", board.Size-r))
		for f := 0; f < board.Size; f++ {
			piece := b.At(board.GridCell{Row: r, Col: f})

			if c.theme == ThemeOff {
				if piece.IsZero() {
					sb.WriteString(". ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", piece.Letter()))
				}
				continue
			}

			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}

			if piece.IsZero() {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
			} else {
				color := theme.black
				if piece.Color == core.ColorWhite {
					color = theme.white
				}
				sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, piece.Letter(), theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", board.Size-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowMove(piece core.Piece, move core.Move) {
	verb := "moves"
	if move.Kind == core.MoveKindCapture {
		verb = "captures"
	}
	c.ShowMessage(fmt.Sprintf("%s %s: %s", piece, verb, move))
}

func (c *CLI) ShowLegalMoves(square string, piece core.Piece, moves []core.Move) {
	if len(moves) == 0 {
		c.ShowMessage(fmt.Sprintf("%s on %s has no legal moves", piece, square))
		return
	}

	targets := make([]string, 0, len(moves))
	for _, m := range moves {
		t := m.To
		if m.Kind == core.MoveKindCapture {
			t += "(x)"
		}
		targets = append(targets, t)
	}
	c.ShowMessage(fmt.Sprintf("%s on %s: %s", piece, square, strings.Join(targets, " ")))
}

func (c *CLI) ShowGames(games []game.Game) {
	if len(games) == 0 {
		c.ShowMessage("No games.")
		return
	}
	for _, g := range games {
		c.ShowMessage(fmt.Sprintf("%s  moves=%d  next=%s  updated=%s",
			g.ID, g.Version, g.NextPlayer, g.UpdatedAt.Format("2006-01-02 15:04:05")))
	}
}

func (c *CLI) ShowGameHistory(g game.Game, history []game.HistoryEntry) {
	for i := 0; i < len(history); i += 2 {
		white := history[i].Move.String()
		black := "..."
		if i+1 < len(history) {
			black = history[i+1].Move.String()
		}
		c.ShowMessage(fmt.Sprintf("%d. %s | %s", i/2+1, white, black))
	}
	c.ShowMessage(fmt.Sprintf("Placement: %s", g.Board.Placement()))
	c.ShowMessage(fmt.Sprintf("Next: %s", g.NextPlayer))
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game
  games            - List stored games
  load <id>        - Continue a stored game
  <from> <to>      - Move a pawn (e.g., e2 e4 or e2e4)
  moves <square>   - Show legal moves of the piece on a square
  board            - Show the board
  history          - Show the move history
  color <theme>    - Set board color theme (off|brown|green|gray)
  quit/exit        - Exit the program
  help/?           - Show this help message

Only pawns move. Other pieces stay on the board as blockers and targets.`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Pawn Chess!")
	c.ShowMessage("Commands: new, games, load <id>, <from> <to>, moves <sq>, board, history, quit/exit, help/?")
	c.ShowMessage("")
}
