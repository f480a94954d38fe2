// Package news requests player articles from the news service and filters
// them per player.
package news

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/jsonutil"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
)

// BuildPayload lists the named players on the roster as {name, team} pairs,
// in roster order and without duplicates.
func BuildPayload(players []models.PlayerRecord) []models.NewsRequestItem {
	payload := make([]models.NewsRequestItem, 0, len(players))
	seen := make(map[models.NewsRequestItem]bool, len(players))
	for _, p := range players {
		if !p.HasName() {
			continue
		}
		item := models.NewsRequestItem{Name: p.PlayerName, Team: p.Team}
		if seen[item] {
			continue
		}
		seen[item] = true
		payload = append(payload, item)
	}
	return payload
}

type responseArticle struct {
	PlayerName   json.RawMessage `json:"playerName"`
	TeamName     json.RawMessage `json:"teamName"`
	ArticleTitle json.RawMessage `json:"articleTitle"`
	Headline     json.RawMessage `json:"headline"`
	SourceURL    json.RawMessage `json:"sourceURL"`
	SourceLink   json.RawMessage `json:"sourceLink"`
	SourceHost   json.RawMessage `json:"sourceHost"`
	Date         json.RawMessage `json:"date"`
	BodyText     json.RawMessage `json:"bodyText"`
	Content      json.RawMessage `json:"content"`
}

// Reconcile parses a news service response body. Anything other than an
// object with an "articles" array yields an empty slice and an error wrapping
// apperrors.ErrRemoteUnavailable. Articles with neither a title nor a link
// are dropped.
func Reconcile(body []byte) ([]models.NewsArticle, error) {
	var envelope struct {
		Articles json.RawMessage `json:"articles"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return []models.NewsArticle{}, fmt.Errorf("%w: news response is not a JSON object: %v", apperrors.ErrRemoteUnavailable, err)
	}

	raw := bytes.TrimSpace(envelope.Articles)
	if len(raw) == 0 || raw[0] != '[' {
		return []models.NewsArticle{}, fmt.Errorf("%w: news response has no articles array", apperrors.ErrRemoteUnavailable)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return []models.NewsArticle{}, fmt.Errorf("%w: news articles array is malformed: %v", apperrors.ErrRemoteUnavailable, err)
	}

	articles := make([]models.NewsArticle, 0, len(elements))
	for _, el := range elements {
		el = bytes.TrimSpace(el)
		if len(el) == 0 || el[0] != '{' {
			continue
		}
		var a responseArticle
		if err := json.Unmarshal(el, &a); err != nil {
			continue
		}
		article, ok := reconcileArticle(a)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func reconcileArticle(a responseArticle) (models.NewsArticle, bool) {
	article := models.NewsArticle{
		PlayerName:   firstString(a.PlayerName),
		TeamName:     firstString(a.TeamName),
		ArticleTitle: firstString(a.ArticleTitle, a.Headline),
		SourceURL:    firstString(a.SourceURL, a.SourceLink),
		SourceHost:   firstString(a.SourceHost),
		Date:         normalizeDate(firstString(a.Date)),
		BodyText:     firstString(a.BodyText, a.Content),
	}
	if article.ArticleTitle == "" && article.SourceURL == "" {
		return models.NewsArticle{}, false
	}
	if article.SourceHost == "" {
		article.SourceHost = hostOf(article.SourceURL)
	}
	return article, true
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
}

// normalizeDate rewrites recognizable dates as YYYY-MM-DD and leaves anything
// else as sent.
func normalizeDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return value
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// FilterForPlayer returns the articles that mention name as a whole word,
// case-insensitively, in either the article's player name or its title.
// An empty name matches nothing.
func FilterForPlayer(articles []models.NewsArticle, name string) []models.NewsArticle {
	out := []models.NewsArticle{}
	name = strings.TrimSpace(name)
	if name == "" {
		return out
	}

	// Boundaries are non-word runes rather than \b so names ending in
	// punctuation ("Jr.") still match.
	pattern := regexp.MustCompile(`(?i)(?:^|\W)` + regexp.QuoteMeta(name) + `(?:\W|$)`)
	for _, a := range articles {
		if pattern.MatchString(a.PlayerName) || pattern.MatchString(a.ArticleTitle) {
			out = append(out, a)
		}
	}
	return out
}

func firstString(values ...json.RawMessage) string {
	for _, v := range values {
		if s := strings.TrimSpace(jsonutil.FlexibleStringValue(v)); s != "" {
			return s
		}
	}
	return ""
}
