package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mcoot/ffmarket/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return NewOutputTo(os.Stdout, format)
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Identify:
		o.printIdentify(v)
	case response.Me:
		o.printMe(v)
	case response.Team:
		o.printTeam(v)
	case response.TeamWithPlayers:
		o.printTeam(v.Team)
		o.printPlayers(v.Players)
	case []response.Player:
		o.printPlayers(v)
	case response.Listing:
		o.printListings([]response.Listing{v})
	case response.ListingPage:
		o.printListingPage(v)
	case response.Buy:
		o.printBuy(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printIdentify(r response.Identify) {
	fmt.Fprintln(o.w, r.Message)
	fmt.Fprintf(o.w, "Token: %s\n", r.Token)
}

func (o *Output) printMe(m response.Me) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", m.Email, m.ID)
	if m.TeamID == "" {
		fmt.Fprintln(o.w, "Team: pending creation")
	} else {
		fmt.Fprintf(o.w, "Team: %s\n", m.TeamID)
	}
}

func (o *Output) printTeam(t response.Team) {
	fmt.Fprintf(o.w, "Team: %s\n", t.ID)
	fmt.Fprintf(o.w, "Budget: %d\n", t.Budget)
}

func (o *Output) printPlayers(players []response.Player) {
	fmt.Fprintf(o.w, "Players (%d):\n", len(players))
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	for _, p := range players {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Position, p.Name, p.ID)
	}
	_ = tw.Flush()
}

func (o *Output) printListings(listings []response.Listing) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LISTING\tPRICE\tPOS\tPLAYER\tTEAM")
	for _, l := range listings {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", l.ID, l.AskingPrice, l.Player.Position, l.Player.Name, l.Player.TeamID)
	}
	_ = tw.Flush()
}

func (o *Output) printListingPage(p response.ListingPage) {
	o.printListings(p.Data)
	end := p.Pagination.Offset + len(p.Data)
	fmt.Fprintf(o.w, "Showing %d-%d of %d\n", min(p.Pagination.Offset+1, end), end, p.Pagination.Total)
	if p.Pagination.HasMore {
		fmt.Fprintf(o.w, "More results: --offset %d\n", end)
	}
}

func (o *Output) printBuy(b response.Buy) {
	fmt.Fprintf(o.w, "Bought player %s for %d\n", b.PlayerID, b.FinalPrice)
	fmt.Fprintf(o.w, "From team %s to team %s\n", b.SellerTeamID, b.BuyerTeamID)
}
