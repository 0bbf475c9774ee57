package categories

import "time"

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Color     *string   `gorm:"type:text" json:"color,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
