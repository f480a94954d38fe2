package models

// NewsRequestItem is one player in the payload sent to the news service.
type NewsRequestItem struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

// NewsArticle is an article the news service matched to a rostered player.
type NewsArticle struct {
	PlayerName   string `json:"playerName"`
	TeamName     string `json:"teamName"`
	ArticleTitle string `json:"articleTitle"`
	SourceURL    string `json:"sourceURL"`
	SourceHost   string `json:"sourceHost"`
	Date         string `json:"date,omitempty"` // YYYY-MM-DD when the source had one
	BodyText     string `json:"bodyText,omitempty"`
}

// NewsResult mirrors InsightResult for the news feed.
type NewsResult struct {
	RequestID string        `json:"requestId"`
	Status    string        `json:"status"`
	Articles  []NewsArticle `json:"articles"`
}
