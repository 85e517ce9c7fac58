package gormstore

import (
	"time"

	pages "github.com/damoang/angple-pages"
	"gorm.io/gorm"
)

// PageRecord 페이지 콘텐츠 레코드
type PageRecord struct {
	ID        int64          `gorm:"column:id;primaryKey" json:"id"`
	Title     string         `gorm:"column:title;size:255;not null" json:"title"`
	Content   string         `gorm:"column:content;type:mediumtext" json:"content"`
	Status    string         `gorm:"column:status;size:20;default:'published'" json:"status"`
	Type      string         `gorm:"column:type;size:20;default:'page'" json:"type"`
	AuthorID  int64          `gorm:"column:author_id" json:"author_id"`
	ParentID  int64          `gorm:"column:parent_id;index" json:"parent_id"`
	MenuOrder int            `gorm:"column:menu_order;default:0" json:"menu_order"`
	Comments  bool           `gorm:"column:comments;default:false" json:"comments"`
	Pingbacks bool           `gorm:"column:pingbacks;default:false" json:"pingbacks"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// TableName GORM 테이블명
func (PageRecord) TableName() string {
	return "pages"
}

// ToRecord converts the row to the library's Record view.
func (p *PageRecord) ToRecord() *pages.Record {
	return &pages.Record{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Status:    pages.Status(p.Status),
		Type:      p.Type,
		AuthorID:  p.AuthorID,
		Parent:    p.ParentID,
		MenuOrder: p.MenuOrder,
		Comments:  p.Comments,
		Pingbacks: p.Pingbacks,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PageMeta 페이지 메타데이터 (key-value)
type PageMeta struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	PageID    int64     `gorm:"column:page_id;uniqueIndex:uk_page_meta" json:"page_id"`
	MetaKey   string    `gorm:"column:meta_key;size:200;uniqueIndex:uk_page_meta" json:"meta_key"`
	MetaValue *string   `gorm:"column:meta_value;type:text" json:"meta_value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName GORM 테이블명
func (PageMeta) TableName() string {
	return "page_meta"
}

// PageOption 등록기 설정 항목 (JSON 인코딩 값)
type PageOption struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	OptionName  string    `gorm:"column:option_name;size:200;uniqueIndex" json:"option_name"`
	OptionValue *string   `gorm:"column:option_value;type:text" json:"option_value"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName GORM 테이블명
func (PageOption) TableName() string {
	return "page_options"
}

// Migrate creates or updates the pages, page_meta and page_options tables.
// Call once at host startup, before the first Install pass.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&PageRecord{}, &PageMeta{}, &PageOption{})
}
