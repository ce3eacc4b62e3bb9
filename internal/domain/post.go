package domain

// Post always belongs to exactly one writer and one category. Comments are
// owned by the post and removed with it.
type Post struct {
	BaseModel
	WriterID   uint      `gorm:"not null;index:idx_posts_writer_id" json:"writer_id"`
	Writer     Member    `gorm:"foreignKey:WriterID;constraint:OnDelete:CASCADE" json:"writer,omitempty"`
	Title      string    `gorm:"type:varchar(100);not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	CategoryID uint      `gorm:"not null;index:idx_posts_category_id" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ViewCount  int       `gorm:"not null;default:0" json:"view_count"`
	Notice     bool      `gorm:"not null;default:false" json:"notice"`
	Comments   []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
