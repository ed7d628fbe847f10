// Package entity defines the domain entities for the tasks feature.
package entity

// Task is a single to-do item. Position defines display order.
type Task struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Task      string `gorm:"type:text;not null" json:"task"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
	Position  int    `gorm:"not null;default:0;index" json:"position"`
}

// TableName pins the table name used by every query.
func (Task) TableName() string {
	return "tasks"
}
