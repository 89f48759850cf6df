package directory

import "time"

type Doctor struct {
	ID               string
	Name             string
	Department       string
	ConsultingCharge *float64
	Image            *string
	Services         *string
	Experience       *string
	AvailableTime    *string
	CreatedAt        time.Time
}

type Department struct {
	ID    string
	Name  string
	Image *string
}

type Banner struct {
	ID    string
	Image *string
	Type  string
}
