package model

import "time"

type Family struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	LocationCity    string    `json:"location_city"`
	LocationCountry string    `json:"location_country"`
	Latitude        string    `json:"latitude"`
	Longitude       string    `json:"longitude"`
	CreatedAt       time.Time `json:"created_at"`
}
