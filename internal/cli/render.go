package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// FormatCents renders an amount in cents as "249.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func seatGlyph(s model.Seat) string {
	switch s.Status {
	case model.SeatBooked:
		return "X"
	case model.SeatSelected:
		return "*"
	default:
		return fmt.Sprint(s.Number)
	}
}

// RenderSeatMap prints one table row per seat row, followed by the price of
// each tier.  Booked seats show as X and selected seats as *.
func RenderSeatMap(w io.Writer, rows []model.SeatRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	width := 0
	for _, r := range rows {
		width = max(width, len(r.Seats))
	}
	header := table.Row{"Row"}
	for i := 1; i <= width; i++ {
		header = append(header, i)
	}
	header = append(header, "Tier", "Price")
	t.AppendHeader(header)

	for _, r := range rows {
		line := table.Row{r.Label}
		for _, s := range r.Seats {
			line = append(line, seatGlyph(s))
		}
		for i := len(r.Seats); i < width; i++ {
			line = append(line, "")
		}
		if len(r.Seats) > 0 {
			line = append(line, string(r.Seats[0].Tier), FormatCents(r.Seats[0].PriceCents))
		} else {
			line = append(line, "", "")
		}
		t.AppendRow(line)
	}
	t.SetCaption("X = booked, * = selected")
	t.Render()
}

// RenderBooking prints the receipt of one committed booking.
func RenderBooking(w io.Writer, b *model.CommittedBooking) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Booking %s", b.ID)
	t.AppendRows([]table.Row{
		{"Movie", b.MovieTitle},
		{"Theater", b.TheaterName},
		{"Show", b.ShowDate.Format(model.DateLayout) + " " + b.ShowTime},
		{"Seats", strings.Join(b.SeatLabels(), ", ")},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Tickets", FormatCents(b.SubtotalCents)},
		{"Convenience fee", FormatCents(b.ConvenienceFeeCents)},
		{"Tax", FormatCents(b.TaxCents)},
	})
	t.AppendFooter(table.Row{"Total", FormatCents(b.TotalCents)})
	t.Render()
}

// RenderBookings prints a user's bookings, most recent first.
func RenderBookings(w io.Writer, bs []model.CommittedBooking) {
	if len(bs) == 0 {
		fmt.Fprintln(w, "no bookings")
		return
	}
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Booking", "Movie", "Theater", "Show", "Seats", "Total"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 24},
		{Number: 3, WidthMax: 24},
	})
	for i := range bs {
		b := &bs[i]
		t.AppendRow(table.Row{
			b.ID,
			b.MovieTitle,
			b.TheaterName,
			b.ShowDate.Format(model.DateLayout) + " " + b.ShowTime,
			strings.Join(b.SeatLabels(), ", "),
			FormatCents(b.TotalCents),
		})
	}
	t.Style().Options.SeparateRows = true
	t.Render()
}
