package notification

import (
	"bytes"
	"html/template"
	"time"

	"resort/internal/domain/booking"
	"resort/internal/domain/catalog"
)

var funcs = template.FuncMap{
	"date":  func(t time.Time) string { return t.Format("Monday, January 2, 2006") },
	"stamp": func(t time.Time) string { return t.Format(time.RFC1123) },
	"money": func(v float64) string { return formatMoney(v) },
}

var operatorTmpl = template.Must(template.New("operator").Funcs(funcs).Parse(`
<h2>New Booking Received</h2>
<p><strong>Reference:</strong> {{.B.BookingReference}}</p>
<p><strong>Guest:</strong> {{.B.GuestName}}</p>
<p><strong>Email:</strong> {{.B.Email}}</p>
<p><strong>Phone:</strong> {{.B.Phone}}</p>
<p><strong>Room:</strong> {{.RoomName}}</p>
<p><strong>Check-in:</strong> {{date .B.CheckIn}}</p>
<p><strong>Check-out:</strong> {{date .B.CheckOut}}</p>
<p><strong>Guests:</strong> {{.B.Guests.Adults}} Adults, {{.B.Guests.Children}} Children</p>
<p><strong>Total:</strong> {{money .B.TotalAmount}}</p>
<p><strong>Verification Code:</strong> {{.Code}}</p>
<p><strong>Expires:</strong> {{stamp .B.ExpiresAt}}</p>
`))

var confirmedTmpl = template.Must(template.New("confirmed").Funcs(funcs).Parse(`
<h1>Reservation Confirmed</h1>
<p>Dear {{.B.GuestName}},</p>
<p>Your reservation <strong>{{.B.BookingReference}}</strong> is confirmed. We look forward to welcoming you.</p>
<table>
<tr><td>Accommodation</td><td>{{.RoomName}}</td></tr>
<tr><td>Check-in</td><td>{{date .B.CheckIn}}</td></tr>
<tr><td>Check-out</td><td>{{date .B.CheckOut}}</td></tr>
<tr><td>Nights</td><td>{{.B.Nights}}</td></tr>
<tr><td>Guests</td><td>{{.B.Guests.Adults}} Adults, {{.B.Guests.Children}} Children</td></tr>
<tr><td>Total</td><td>{{money .B.TotalAmount}}</td></tr>
</table>
{{if .B.SpecialRequests}}<p><strong>Special requests:</strong> {{.B.SpecialRequests}}</p>{{end}}
`))

var receiptTmpl = template.Must(template.New("receipt").Funcs(funcs).Parse(`
<h1>Booking Confirmation</h1>
<p>Dear {{.B.GuestName}},</p>
<p>Please find attached the confirmation for reservation <strong>{{.B.BookingReference}}</strong>
at {{.RoomName}}, {{date .B.CheckIn}} to {{date .B.CheckOut}}.</p>
`))

type emailData struct {
	B        *booking.Booking
	RoomName string
	Code     string
}

func render(t *template.Template, b *booking.Booking, room *catalog.Room) (string, error) {
	data := emailData{B: b}
	if room != nil {
		data.RoomName = room.Name
	}
	if b.VerificationCode != nil {
		data.Code = *b.VerificationCode
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
