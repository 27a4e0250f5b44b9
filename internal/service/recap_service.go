package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goaltracker/internal/db"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	recapMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	recapSanitizer = bluemonday.UGCPolicy()
)

// RecapInput 描述复盘的可更新字段，nil 表示保持原值。
type RecapInput struct {
	Overview      *string
	Wins          *string
	Challenges    *string
	GratefulFor   *string
	SongOfWeek    *string
	Lessons       *string
	NextWeekFocus *string
}

// RecapSection 为复盘中的一个章节。
type RecapSection struct {
	Key     string
	Heading string
	Body    string
}

// RecapService 负责每周复盘的懒创建、更新与导出
type RecapService struct {
	db    *gorm.DB
	weeks *WeekService
	feed  *ChangeFeed
}

// NewRecapService 构造 RecapService
func NewRecapService(gdb *gorm.DB, weeks *WeekService, feed *ChangeFeed) *RecapService {
	return &RecapService{db: gdb, weeks: weeks, feed: feed}
}

// GetOrCreate 查找所在周的复盘，不存在时以空字段创建
func (s *RecapService) GetOrCreate(weekStart time.Time) (*db.WeeklyRecap, error) {
	week := s.weeks.WeekStart(weekStart)

	var recap db.WeeklyRecap
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("week_start = ?", week.UTC()).Order("created_at ASC").First(&recap).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := s.weeks.Now()
		recap = db.WeeklyRecap{
			ID:        uuid.New().String(),
			WeekStart: week,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(&recap).Error
	})
	if err != nil {
		return nil, persistenceError("get or create recap", err)
	}
	return &recap, nil
}

// Get 根据 ID 获取复盘
func (s *RecapService) Get(id string) (*db.WeeklyRecap, error) {
	var recap db.WeeklyRecap
	if err := s.db.Where("id = ?", id).First(&recap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecapNotFound
		}
		return nil, persistenceError("get recap", err)
	}
	return &recap, nil
}

// Update 覆盖提供的字段，并总是刷新 UpdatedAt
func (s *RecapService) Update(id string, input RecapInput) (*db.WeeklyRecap, error) {
	recap, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&recap.Overview, input.Overview)
	assign(&recap.Wins, input.Wins)
	assign(&recap.Challenges, input.Challenges)
	assign(&recap.GratefulFor, input.GratefulFor)
	assign(&recap.SongOfWeek, input.SongOfWeek)
	assign(&recap.Lessons, input.Lessons)
	assign(&recap.NextWeekFocus, input.NextWeekFocus)
	recap.UpdatedAt = s.weeks.Now()

	if err := s.db.Save(recap).Error; err != nil {
		return nil, persistenceError("update recap", err)
	}

	s.feed.Publish(Change{Kind: ChangeRecapUpdated, ID: recap.ID, At: recap.UpdatedAt})
	return recap, nil
}

// List 返回全部复盘，周新的在前
func (s *RecapService) List() ([]db.WeeklyRecap, error) {
	var recaps []db.WeeklyRecap
	if err := s.db.Order("week_start DESC").Find(&recaps).Error; err != nil {
		return nil, persistenceError("list recaps", err)
	}
	return recaps, nil
}

// Sections 按固定顺序列出复盘的各个章节（包括空章节）。
func Sections(recap db.WeeklyRecap) []RecapSection {
	return []RecapSection{
		{Key: "overview", Heading: "OVERVIEW", Body: recap.Overview},
		{Key: "wins", Heading: "WINS", Body: recap.Wins},
		{Key: "challenges", Heading: "CHALLENGES", Body: recap.Challenges},
		{Key: "gratefulFor", Heading: "GRATEFUL FOR", Body: recap.GratefulFor},
		{Key: "songOfWeek", Heading: "SONG OF THE WEEK", Body: recap.SongOfWeek},
		{Key: "lessons", Heading: "LESSONS LEARNED", Body: recap.Lessons},
		{Key: "nextWeekFocus", Heading: "NEXT WEEK FOCUS", Body: recap.NextWeekFocus},
	}
}

// ExportText 生成纯文本导出，只包含非空章节
func (s *RecapService) ExportText(recap db.WeeklyRecap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weekly Recap - %s\n", s.weeks.FormatWeekRange(recap.WeekStart))
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")

	for _, section := range Sections(recap) {
		body := strings.TrimSpace(section.Body)
		if body == "" {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n%s\n", section.Heading, body)
	}
	return b.String()
}

// RenderHTML 将非空章节从 Markdown 渲染为净化后的 HTML，键为章节 Key
func (s *RecapService) RenderHTML(recap db.WeeklyRecap) (map[string]string, error) {
	rendered := make(map[string]string)
	for _, section := range Sections(recap) {
		if strings.TrimSpace(section.Body) == "" {
			continue
		}

		var buf bytes.Buffer
		if err := recapMarkdown.Convert([]byte(section.Body), &buf); err != nil {
			return nil, fmt.Errorf("render recap %s: %w", section.Key, err)
		}
		rendered[section.Key] = recapSanitizer.Sanitize(buf.String())
	}
	return rendered, nil
}
