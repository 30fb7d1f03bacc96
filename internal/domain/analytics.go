package domain

// LocationStat counts users and pets registered under one location label.
type LocationStat struct {
	Location string
	Users    int
	Pets     int
}
