// Package schema has models and constants shared by all parts of devevent.
package schema

// Event holds the display props of a single event card.
// Stored documents and rows carry exactly these fields.
type Event struct {
	Title    string `json:"title" bson:"title" parquet:"title"`
	Image    string `json:"image" bson:"image" parquet:"image"` // URI of the poster
	Slug     string `json:"slug" bson:"slug" parquet:"slug"`
	Location string `json:"location" bson:"location" parquet:"location"`
	Date     string `json:"date" bson:"date" parquet:"date"`
	Time     string `json:"time" bson:"time" parquet:"time"`
}

// NavLink is a single entry of the navigation bar.
type NavLink struct {
	Label string
	Href  string
}
