package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"toolkit/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoOptions sizes the fake engagement added by cmd/seed -demo.
type DemoOptions struct {
	Users              int
	MaxCommentsPerUser int
	LikeProbability    float64
	MaxDays            int
	PendingSubmissions int
	Seed               int64
}

// DefaultDemoOptions returns values that give a lively but readable catalog.
func DefaultDemoOptions() DemoOptions {
	return DemoOptions{
		Users:              25,
		MaxCommentsPerUser: 3,
		LikeProbability:    0.4,
		MaxDays:            60,
		PendingSubmissions: 5,
		Seed:               time.Now().UnixNano(),
	}
}

// DemoSummary reports what a demo run created.
type DemoSummary struct {
	Users       int
	Likes       int
	Comments    int
	Submissions int
}

// Factory builds fake domain entities and persists them.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  DemoOptions
}

// NewFactory creates a Factory bound to db. A fixed opts.Seed gives reproducible data.
func NewFactory(db *gorm.DB, opts DemoOptions) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 60
	}
	return &Factory{db: db, faker: gofakeit.New(opts.Seed), opts: opts}
}

// pastTime spreads created_at over the last MaxDays days.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// BuildUser returns an unsaved USER with a unique demo email.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Name:      first + " " + last,
		Email:     strings.ToLower(fmt.Sprintf("%s.%s.%s@demo.toolkit.local", first, last, f.faker.LetterN(6))),
		Image:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Role:      models.RoleUser,
		CreatedAt: f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUsers persists n demo users in one batch.
func (f *Factory) CreateUsers(n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for range n {
		users = append(users, *f.BuildUser())
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := f.db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("create demo users: %w", err)
	}
	return users, nil
}

// BuildComment returns an unsaved comment by user on resource.
func (f *Factory) BuildComment(user models.User, resource models.Resource) *models.Comment {
	return &models.Comment{
		Body:       f.faker.Paragraph(1, f.faker.Number(1, 3), f.faker.Number(6, 14), " "),
		UserID:     user.ID,
		ResourceID: resource.ID,
		CreatedAt:  f.pastTime(),
	}
}

// BuildSubmission returns an unsaved PENDING submission by user.
func (f *Factory) BuildSubmission(user models.User) *models.Submission {
	url := f.faker.URL()
	body := f.faker.Paragraph(2, 3, 10, "\n\n")
	return &models.Submission{
		Title:         f.faker.HipsterSentence(4),
		Description:   f.faker.Sentence(14),
		Body:          &body,
		Type:          f.faker.RandomString([]string{"Article", "Guide", "Canvas", "Framework", "Workshop"}),
		ExternalURL:   &url,
		Status:        models.SubmissionStatusPending,
		SubmittedByID: user.ID,
		CreatedAt:     f.pastTime(),
	}
}

// Demo adds fake users who like and comment on published resources and propose a few
// submissions. Likes are idempotent per user and resource.
func (f *Factory) Demo() (*DemoSummary, error) {
	var published []models.Resource
	if err := f.db.Where("status = ?", models.ResourceStatusPublished).Find(&published).Error; err != nil {
		return nil, fmt.Errorf("load published resources: %w", err)
	}

	users, err := f.CreateUsers(f.opts.Users)
	if err != nil {
		return nil, err
	}
	summary := &DemoSummary{Users: len(users)}
	if len(users) == 0 {
		return summary, nil
	}

	var likes []models.Like
	var comments []models.Comment
	for _, u := range users {
		for _, r := range published {
			if f.faker.Float64Range(0, 1) < f.opts.LikeProbability {
				likes = append(likes, models.Like{UserID: u.ID, ResourceID: r.ID, CreatedAt: f.pastTime()})
			}
		}
		if len(published) == 0 || f.opts.MaxCommentsPerUser <= 0 {
			continue
		}
		for range f.faker.Number(0, f.opts.MaxCommentsPerUser) {
			r := published[f.faker.Number(0, len(published)-1)]
			comments = append(comments, *f.BuildComment(u, r))
		}
	}

	err = f.db.Transaction(func(tx *gorm.DB) error {
		if len(likes) > 0 {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&likes, 200)
			if res.Error != nil {
				return fmt.Errorf("create demo likes: %w", res.Error)
			}
			summary.Likes = int(res.RowsAffected)
		}
		if len(comments) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(&comments, 200).Error; err != nil {
				return fmt.Errorf("create demo comments: %w", err)
			}
			summary.Comments = len(comments)
		}
		for i := 0; i < f.opts.PendingSubmissions; i++ {
			sub := f.BuildSubmission(users[i%len(users)])
			if err := tx.Omit(clause.Associations).Create(sub).Error; err != nil {
				return fmt.Errorf("create demo submission: %w", err)
			}
			summary.Submissions++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✓ demo: %d users, %d likes, %d comments, %d submissions",
		summary.Users, summary.Likes, summary.Comments, summary.Submissions)
	return summary, nil
}
