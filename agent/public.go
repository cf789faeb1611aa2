package agent

import (
	"context"
	"fmt"

	"github.com/etnz/chipbook"
	"github.com/etnz/chipbook/docs"
	"github.com/etnz/chipbook/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user runs a regular home poker game and keeps its books here. He is primarily
			here to ask about the game's standings, a past session, a player's record, or for
			advice on his play.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request.

			The user will assume that you know the players and sessions of his game, check the
			books first to understand who and what he is talking about.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewCoach returns the strategy expert. It has no access to the books; it
// grounds rules and strategy questions with Google Search.
func NewCoach() *Expert {
	return &Expert{
		Name: "Coach",
		Description: `This is a poker coach,
		well aware of game rules, formats, bankroll management and strategy,
		and of the latest poker news. Ask the Coach whenever you need recent
		or grounding information about the game itself.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert poker coach. You can search and find anything related to
			poker rules, variants, tournament structures, bankroll management and strategy.
			You leverage Google Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewBookkeeper returns the expert in charge of reading the game's books.
// load fetches the current ledger; the CLI passes a closure over its ledger
// file so every call sees fresh books.
func NewBookkeeper(load func() (*chipbook.Ledger, error)) *Expert {
	lib := []Function{standingsFunc(load), sessionsFunc(load), playerHistoryFunc(load)}

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. He is in charge of reading the game's books.
		He can list the standings over any period, detail any session, and recount any
		player's history.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the bookkeeper of the user's home poker game.
				You know how to use the Tools to extract relevant information about the game.
				You are part of a team of experts, yours is everything recorded in the books.
				They might ask you questions about the game, pardon their approximative
				language and figure out what they meant.

				Use the available tools to get information about the game:
				  - standings over a period
				  - the list of sessions, or one session in full
				  - one player's history
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func standingsFunc(load func() (*chipbook.Ledger, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Standings",
			Description: `Standings lists every player's record over a period: sessions played,
			total profit, average win/loss, win rate, ROI and standard deviation, ordered by
			total profit. Without arguments it covers all time.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from": {
						Type: genai.TypeString,
						Description: `First date of the period, inclusive. It uses a flexible
						date format based on YYYY-MM-DD:

						` + must(docs.GetTopic("dates")),
					},
					"to": {
						Type:        genai.TypeString,
						Description: `Last date of the period, inclusive. Same format as 'from'.`,
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted leaderboard table.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			period, err := parsePeriod(args)
			if err != nil {
				return errorResponse(id, "Standings", err)
			}
			l, err := load()
			if err != nil {
				return errorResponse(id, "Standings", err)
			}
			out := renderer.StatisticsMarkdown(period, l.AllStatistics(period))
			return &genai.FunctionResponse{
				ID:       id,
				Name:     "Standings",
				Response: map[string]any{"output": out},
			}
		},
	}
}

func sessionsFunc(load func() (*chipbook.Ledger, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Sessions",
			Description: `Sessions lists every session in the books in chronological order.
			Given a date it instead details the session played that day: who sat, their
			buy-ins, cash-outs and nets, and whether the books balance.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": {
						Type: genai.TypeString,
						Description: `The date of the session to detail. Omit it to list all
						sessions. It uses a flexible date format based on YYYY-MM-DD:

						` + must(docs.GetTopic("dates")),
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted session list, or one session in full.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			l, err := load()
			if err != nil {
				return errorResponse(id, "Sessions", err)
			}

			if _, hasDate := args["date"]; !hasDate {
				var sessions []chipbook.Session
				for s := range l.Sessions() {
					sessions = append(sessions, s)
				}
				return &genai.FunctionResponse{
					ID:       id,
					Name:     "Sessions",
					Response: map[string]any{"output": renderer.SessionsMarkdown(l, sessions)},
				}
			}

			date, err := parseDate(args, "date")
			if err != nil {
				return errorResponse(id, "Sessions", err)
			}
			// The latest session of that day, when several were played.
			var found chipbook.Session
			ok := false
			for s := range l.Sessions(chipbook.ByRange(chipbook.NewRange(date, date))) {
				found, ok = s, true
			}
			if !ok {
				return errorResponse(id, "Sessions", fmt.Errorf("no session on %s", date))
			}
			out, err := renderer.SessionMarkdown(l, found.ID())
			if err != nil {
				return errorResponse(id, "Sessions", err)
			}
			return &genai.FunctionResponse{
				ID:       id,
				Name:     "Sessions",
				Response: map[string]any{"output": out},
			}
		},
	}
}

func playerHistoryFunc(load func() (*chipbook.Ledger, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "PlayerHistory",
			Description: `PlayerHistory recounts one player's completed sessions: the net of
			each and the running balance, oldest first.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"player": {
						Type:        genai.TypeString,
						Description: "The player's name, matched case-insensitively.",
					},
				},
				Required: []string{"player"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the player's balance history.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			name, ok := args["player"].(string)
			if !ok {
				return errorResponse(id, "PlayerHistory", fmt.Errorf("argument 'player' is not a string as expected but %T", args["player"]))
			}
			l, err := load()
			if err != nil {
				return errorResponse(id, "PlayerHistory", err)
			}
			p, ok := l.PlayerByName(name)
			if !ok {
				return errorResponse(id, "PlayerHistory", fmt.Errorf("unknown player %q", name))
			}
			out := renderer.HistoryMarkdown(l.PlayerStatistics(p.ID(), chipbook.Range{}))
			return &genai.FunctionResponse{
				ID:       id,
				Name:     "PlayerHistory",
				Response: map[string]any{"output": out},
			}
		},
	}
}

// parseDate reads one optional date argument, defaulting to today.
func parseDate(args map[string]any, key string) (chipbook.Date, error) {
	idate, hasDate := args[key]
	if !hasDate {
		return chipbook.Today(), nil
	}
	sdate, ok := idate.(string)
	if !ok {
		return chipbook.Today(), fmt.Errorf("argument %q is not a string as expected but %T", key, idate)
	}

	date, err := chipbook.ParseDate(sdate)
	if err != nil {
		return chipbook.Today(), fmt.Errorf("argument %q must be a valid date got %q. Below is the doc about the date format\n\n%s ", key, sdate, must(docs.GetTopic("dates")))
	}
	return date, nil
}

// parsePeriod reads the optional from and to arguments into a range.
func parsePeriod(args map[string]any) (chipbook.Range, error) {
	var from, to chipbook.Date
	if _, ok := args["from"]; ok {
		var err error
		if from, err = parseDate(args, "from"); err != nil {
			return chipbook.Range{}, err
		}
	}
	if _, ok := args["to"]; ok {
		var err error
		if to, err = parseDate(args, "to"); err != nil {
			return chipbook.Range{}, err
		}
	}
	return chipbook.NewRange(from, to), nil
}
