package model

// Movie is a catalog entry for a film that can be booked.
//
// Fields:
//  ID          – catalog identifier.
//  Title       – display title.
//  Certificate – rating certificate (PG-13, R, ...).
//  Language    – original language.
//  Runtime     – running time in minutes.
//  Genres      – genre tags.
//  PosterURL   – poster image, copied onto committed bookings.
//  Featured    – shown on the landing carousel.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Certificate string   `json:"certificate"`
	Language    string   `json:"language"`
	Runtime     int      `json:"runtime"`
	Genres      []string `json:"genres"`
	PosterURL   string   `json:"poster_url"`
	Featured    bool     `json:"featured"`
}

// Theater is a venue with a fixed list of daily show times ("HH:MM").
type Theater struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Type      string   `json:"type"`
	ShowTimes []string `json:"show_times"`
}
