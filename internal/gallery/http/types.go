package http

import "github.com/AmlrSF/portfolio-client/internal/gallery/domain"

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ListResponse struct {
	Projects   []domain.Project `json:"projects"`
	Pagination Pagination       `json:"pagination"`
}

type createReq struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Thumbnail   string   `json:"thumbnail"`
	Featured    bool     `json:"featured"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	Client      string   `json:"client"`
	ProjectURL  string   `json:"projectUrl"`
}

type likeReq struct {
	Liked *bool `json:"liked"`
}

type ViewResponse struct {
	Views   int64  `json:"views"`
	Message string `json:"message"`
}

type LikeResponse struct {
	Likes   int64  `json:"likes"`
	Message string `json:"message"`
}
