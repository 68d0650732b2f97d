package domain

// TopicStatus tracks a discussion topic through its answer lifecycle.
type TopicStatus string

const (
	TopicNotAnswered TopicStatus = "NOT_ANSWERED"
	TopicNotSolved   TopicStatus = "NOT_SOLVED"
	TopicSolved      TopicStatus = "SOLVED"
	TopicClosed      TopicStatus = "CLOSED"
)

type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Topic struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Course     Course      `json:"course"`
	Author     User        `json:"author"`
	Status     TopicStatus `json:"status"`
	CountViews int         `json:"countViews"`
	IsActive   bool        `json:"isActive"`
}

type CreateTopicRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CourseID    int64  `json:"courseId"`
	AuthorID    int64  `json:"authorId"`
}
