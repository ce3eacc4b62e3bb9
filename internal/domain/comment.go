package domain

// Comment belongs to a writer and a post; it is cascade-deleted with either
type Comment struct {
	BaseModel
	WriterID uint   `gorm:"not null;index:idx_comments_writer_id" json:"writer_id"`
	Writer   Member `gorm:"foreignKey:WriterID;constraint:OnDelete:CASCADE" json:"writer,omitempty"`
	PostID   uint   `gorm:"not null;index:idx_comments_post_id" json:"post_id"`
	Post     Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
