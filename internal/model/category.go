package model

import "time"

// Category is a user-selected tag attached to every recorded session.
type Category struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// DefaultColor is assigned to categories added without an explicit color.
const DefaultColor = "#3498db"

// DefaultCategories are seeded on first run.
var DefaultCategories = []Category{
	{Name: "Work", Color: "#e74c3c"},
	{Name: "Solve", Color: "#f39c12"},
	{Name: "Build", Color: "#2ecc71"},
	{Name: "Learn", Color: "#3498db"},
	{Name: "Chill", Color: "#9b59b6"},
}
