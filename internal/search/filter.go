// Package search builds dynamic GORM query conditions for the board's
// list endpoints from optional period and keyword parameters.
package search

import (
	"regexp"
	"time"

	"gorm.io/gorm"
)

// Condition selects which columns a keyword is matched against
type Condition string

const (
	ConditionTitle          Condition = "title"
	ConditionContent        Condition = "content"
	ConditionTitleOrContent Condition = "titleOrContent"
	ConditionWriter         Condition = "writer"
)

var periodPattern = regexp.MustCompile(`^[0-9]+[dwmy]$`)

// ParsePeriod turns a period token like "3d", "2w", "1m" or "1y" into the
// inclusive lower bound for created_at: the start of today shifted back by
// the given amount. The boolean is false when the token is empty, malformed
// or has a zero count, meaning no time restriction at all.
func ParsePeriod(s string, now time.Time) (time.Time, bool) {
	if !periodPattern.MatchString(s) {
		return time.Time{}, false
	}

	n := 0
	for _, r := range s[:len(s)-1] {
		n = n*10 + int(r-'0')
	}
	// "0d" and friends widen to the full history rather than "since midnight"
	if n == 0 {
		return time.Time{}, false
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch s[len(s)-1] {
	case 'd':
		return start.AddDate(0, 0, -n), true
	case 'w':
		return start.AddDate(0, 0, -7*n), true
	case 'm':
		return start.AddDate(0, -n, 0), true
	case 'y':
		return start.AddDate(-n, 0, 0), true
	}
	return time.Time{}, false
}

// PostFilter describes the optional predicates of a post search. Nil or
// zero-valued fields contribute nothing to the query, so an empty filter
// matches every post.
type PostFilter struct {
	WriterID   *uint
	CategoryID *uint
	Notice     *bool
	Period     string
	Condition  Condition
	Keyword    string
	Now        time.Time
}

// Apply composes the filter's predicates onto the query with AND. The writer
// condition matches against the member's nickname and requires a join; the
// other keyword conditions stay on the posts table.
func (f PostFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.WriterID != nil {
		db = db.Where("posts.writer_id = ?", *f.WriterID)
	}
	if f.CategoryID != nil {
		db = db.Where("posts.category_id = ?", *f.CategoryID)
	}
	if f.Notice != nil {
		db = db.Where("posts.notice = ?", *f.Notice)
	}

	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	if cutoff, ok := ParsePeriod(f.Period, now); ok {
		db = db.Where("posts.created_at >= ?", cutoff)
	}

	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		switch f.Condition {
		case ConditionTitle:
			db = db.Where("posts.title LIKE ?", like)
		case ConditionContent:
			db = db.Where("posts.content LIKE ?", like)
		case ConditionTitleOrContent:
			db = db.Where("posts.title LIKE ? OR posts.content LIKE ?", like, like)
		case ConditionWriter:
			db = db.Joins("JOIN members ON members.id = posts.writer_id").
				Where("members.nickname LIKE ?", like)
		default:
			// unknown conditions fall back to the widest match: title,
			// content or writer nickname
			db = db.Joins("JOIN members ON members.id = posts.writer_id").
				Where("posts.title LIKE ? OR posts.content LIKE ? OR members.nickname LIKE ?",
					like, like, like)
		}
	}

	return db
}

// CommentFilter describes the optional predicates of a comment search
type CommentFilter struct {
	WriterID *uint
	PostID   *uint
	Period   string
	Now      time.Time
}

// Apply composes the filter's predicates onto the query with AND
func (f CommentFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.WriterID != nil {
		db = db.Where("comments.writer_id = ?", *f.WriterID)
	}
	if f.PostID != nil {
		db = db.Where("comments.post_id = ?", *f.PostID)
	}

	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	if cutoff, ok := ParsePeriod(f.Period, now); ok {
		db = db.Where("comments.created_at >= ?", cutoff)
	}

	return db
}
