package models

import (
	"time"

	"gorm.io/gorm"
)

// ListKind distinguishes the system-managed lists from user collections.
type ListKind string

const (
	ListFavorites ListKind = "favorites"
	ListCreations ListKind = "creations"
	ListCustom    ListKind = "custom"
)

// Names of the system lists every user owns.
const (
	FavoritesListName = "Favorites"
	CreationsListName = "Your Creations"
)

// List is a named collection of cocktails owned by one user.
type List struct {
	gorm.Model
	Name        string   `gorm:"not null" json:"name"`
	NameKey     string   `gorm:"not null;uniqueIndex:idx_lists_owner_name" json:"-"`
	Description string   `gorm:"type:text" json:"description"`
	OwnerID     uint     `gorm:"not null;index;uniqueIndex:idx_lists_owner_name" json:"owner_id"`
	Owner       *User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Kind        ListKind `gorm:"type:varchar(16);not null;default:custom" json:"kind"`
	IsEditable  bool     `gorm:"not null" json:"is_editable"`
	IsDeletable bool     `gorm:"not null" json:"is_deletable"`
	IsPublic    bool     `gorm:"not null;default:false" json:"is_public"`
}

func (l *List) BeforeSave(tx *gorm.DB) error {
	l.NameKey = NameKey(l.Name)
	return nil
}

// IsSystem reports whether the list is one of the two managed lists.
func (l List) IsSystem() bool {
	return l.Kind == ListFavorites || l.Kind == ListCreations
}

// ListMembership records that a cocktail belongs to a list.
type ListMembership struct {
	ListID     uint      `gorm:"primaryKey;autoIncrement:false"`
	CocktailID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	AddedAt    time.Time `gorm:"autoCreateTime"`
}

// IsReservedListName reports whether name collides with a system list name.
func IsReservedListName(name string) bool {
	key := NameKey(name)
	return key == NameKey(FavoritesListName) || key == NameKey(CreationsListName)
}

// OwnedBy returns the id of the user allowed to mutate the list.
func (l List) OwnedBy() uint {
	return l.OwnerID
}
