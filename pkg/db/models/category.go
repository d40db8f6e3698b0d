package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

// Category is one node of the fixed four-level navigation hierarchy.
//
// ParentID always references the immediate parent. The per-level ancestor
// columns are denormalized so a node can be filtered by any ancestor without
// walking the tree: a secondary carries its primary id, a tertiary carries
// primary+secondary, a quaternary carries all three.
type Category struct {
	ID    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string              `gorm:"column:name;not null"`
	Level enums.CategoryLevel `gorm:"column:level;type:category_level;not null"`

	ParentID            *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	PrimaryCategoryID   *uuid.UUID `gorm:"column:primary_category_id;type:uuid"`
	SecondaryCategoryID *uuid.UUID `gorm:"column:secondary_category_id;type:uuid"`
	TertiaryCategoryID  *uuid.UUID `gorm:"column:tertiary_category_id;type:uuid"`

	Parent            *Category `gorm:"foreignKey:ParentID"`
	PrimaryCategory   *Category `gorm:"foreignKey:PrimaryCategoryID"`
	SecondaryCategory *Category `gorm:"foreignKey:SecondaryCategoryID"`
	TertiaryCategory  *Category `gorm:"foreignKey:TertiaryCategoryID"`

	Children []Category `gorm:"foreignKey:ParentID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
