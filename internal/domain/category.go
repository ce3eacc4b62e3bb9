package domain

// RootCategoryName is the synthetic root of the category tree; listing
// against it means "all categories"
const RootCategoryName = "ALL"

// Category forms a tree via the parent reference. The children and posts
// collections are derived through the foreign keys, not maintained in memory.
type Category struct {
	BaseModel
	Name     string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	ParentID *uint      `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Posts    []Post     `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}
