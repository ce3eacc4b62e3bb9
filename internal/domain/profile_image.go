package domain

// ProfileImage holds uploaded-file metadata plus a base64 copy of the image
// for inline display. All payload fields are nullable so a cleared row
// represents "no image".
type ProfileImage struct {
	BaseModel
	MemberID     uint    `gorm:"not null;uniqueIndex" json:"member_id"`
	OriginalName *string `gorm:"type:varchar(255)" json:"original_name,omitempty"`
	StoreName    *string `gorm:"type:varchar(255)" json:"store_name,omitempty"`
	StoreKey     *string `gorm:"type:varchar(512)" json:"-"`
	FileSize     *int64  `json:"file_size,omitempty"`
	Base64Data   *string `gorm:"type:text" json:"base64_data,omitempty"`
}

// TableName specifies the table name for ProfileImage
func (ProfileImage) TableName() string {
	return "profile_images"
}

// HasImage reports whether an image is currently stored
func (p *ProfileImage) HasImage() bool {
	return p != nil && p.StoreKey != nil
}

// Update replaces the stored image metadata
func (p *ProfileImage) Update(originalName, storeName, storeKey string, fileSize int64, base64Data string) {
	p.OriginalName = &originalName
	p.StoreName = &storeName
	p.StoreKey = &storeKey
	p.FileSize = &fileSize
	p.Base64Data = &base64Data
}

// Clear resets the row to the "no image" state
func (p *ProfileImage) Clear() {
	p.OriginalName = nil
	p.StoreName = nil
	p.StoreKey = nil
	p.FileSize = nil
	p.Base64Data = nil
}
