package domain

type Project struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	RepositoryURL string   `json:"repositoryUrl"`
	ImageURL      string   `json:"imageUrl"`
	Technologies  []string `json:"technologies"`
	CountViews    int      `json:"countViews"`
	CreatedAt     string   `json:"createdAt"`
	Author        User     `json:"author"`
}

type ProjectsPage struct {
	Pages    int       `json:"pages"`
	Projects []Project `json:"projects"`
}

type CreateProjectRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	RepositoryURL string   `json:"repositoryUrl"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Technologies  []string `json:"technologies"`
	AuthorID      int64    `json:"authorId"`
}

type UpdateProjectRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	RepositoryURL *string  `json:"repositoryUrl,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
	Technologies  []string `json:"technologies,omitempty"`
}

type ProjectComment struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Author    User   `json:"author"`
	CreatedAt string `json:"createdAt"`
	ProjectID int64  `json:"projectId"`
}

type CommentsPage struct {
	Pages    int              `json:"pages"`
	Comments []ProjectComment `json:"comments"`
}

type CreateCommentRequest struct {
	Text     string `json:"text"`
	AuthorID int64  `json:"authorId"`
}

type UpdateCommentRequest struct {
	Text string `json:"text"`
}
