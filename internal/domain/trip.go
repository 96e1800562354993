package domain

import "time"

type Member struct {
	Name         string `json:"name"`
	Passport     string `json:"passport"`
	BookingRef   string `json:"bookingRef,omitempty"`
	TicketNumber string `json:"ticketNumber,omitempty"`
}

type LuggageItem struct {
	Name   string `json:"name"`
	Packed bool   `json:"packed"`
}

type CheckIn struct {
	Spot     string  `json:"spotName"`
	Day      Day     `json:"day"`
	Time     string  `json:"time"` // YYYY-MM-DD HH:MM, local time
	PhotoURL *string `json:"photoUrl"`
}

type Reminder struct {
	Title string    `json:"title"`
	At    time.Time `json:"targetTime"`
}

type Preferences struct {
	DarkMode bool `json:"darkMode"`
}

// Progress describes how far into the trip "today" is.
type Progress struct {
	Day     int     `json:"day"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// Conversion is the result of converting between the trip currencies.
type Conversion struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    string  `json:"amount"`
	Result    string  `json:"result"`
	Formatted string  `json:"formatted"`
	Rate      float64 `json:"rate"`
}

var DefaultMembers = []Member{
	{Name: "WU CHIEH JUI", Passport: "TBD-1", BookingRef: "FZG27B", TicketNumber: "695-5529306522"},
	{Name: "MA JUI MIN", Passport: "TBD-2", BookingRef: "FZG27B", TicketNumber: "695-5529306523"},
	{Name: "FANG RUO YAN", Passport: "TBD-3", BookingRef: "FZG27B", TicketNumber: "695-5529306524"},
	{Name: "CHEN LI WEN", Passport: "TBD-4", BookingRef: "FZG27B", TicketNumber: "695-5529306525"},
}

var DefaultLuggage = []string{
	"Passport", "National ID card", "Flight tickets / e-tickets",
	"Suitcase / backpack", "Light clothing", "Comfortable sneakers",
	"Charger / power bank", "Plug adapter", "Sunscreen / after-sun",
	"Common medicine", "Cash / credit card", "SIM card / eSIM",
}
