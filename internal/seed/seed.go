// Package seed populates a database with demo users, dreams and social
// activity. It is intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ruya/internal/middleware"
	"ruya/internal/models"
	"ruya/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options sizes the generated data set.
type Options struct {
	Users           int
	PostsPerUser    int
	FollowsPerUser  int
	LikesPerPost    int
	CommentsPerPost int
	// RandSeed makes runs reproducible when non-zero.
	RandSeed int64
}

// DefaultOptions is a small but fully connected data set.
func DefaultOptions() Options {
	return Options{
		Users:           20,
		PostsPerUser:    3,
		FollowsPerUser:  5,
		LikesPerPost:    4,
		CommentsPerPost: 3,
	}
}

// Result counts what a run created.
type Result struct {
	Users    int `json:"users" yaml:"users"`
	Posts    int `json:"posts" yaml:"posts"`
	Follows  int `json:"follows" yaml:"follows"`
	Likes    int `json:"likes" yaml:"likes"`
	Comments int `json:"comments" yaml:"comments"`
	Shares   int `json:"shares" yaml:"shares"`
}

// Seeder writes through the domain services so counters and notifications
// come out exactly as live traffic would leave them.
type Seeder struct {
	svc   *service.Services
	fake  *gofakeit.Faker
	opts  Options
	stats Result
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		svc:  service.New(db),
		fake: gofakeit.New(opts.RandSeed),
		opts: opts,
	}
}

// Run creates users, publishes a post per generated dream, then follows,
// likes, comments and shares between them. Duplicate edges picked at
// random are skipped.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		u, err := s.createUser(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	if len(users) == 0 {
		return &s.stats, nil
	}

	var posts []*models.Post
	for _, u := range users {
		for j := 0; j < s.opts.PostsPerUser; j++ {
			p, err := s.createPost(ctx, u, users)
			if err != nil {
				return nil, fmt.Errorf("create post: %w", err)
			}
			posts = append(posts, p)
		}
	}

	for _, u := range users {
		for j := 0; j < s.opts.FollowsPerUser; j++ {
			target := s.pick(users)
			if target.ID == u.ID {
				continue
			}
			follow, err := s.svc.Follow.Follow(ctx, u.ID, target.ID)
			if err := skipConflict(err); err != nil {
				return nil, fmt.Errorf("follow: %w", err)
			}
			if follow != nil {
				s.stats.Follows++
			}
		}
	}

	for _, p := range posts {
		if err := s.engage(ctx, p, users); err != nil {
			return nil, err
		}
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("users", s.stats.Users),
		slog.Int("posts", s.stats.Posts),
		slog.Int("follows", s.stats.Follows),
		slog.Int("likes", s.stats.Likes),
		slog.Int("comments", s.stats.Comments),
		slog.Int("shares", s.stats.Shares),
	)
	return &s.stats, nil
}

func (s *Seeder) createUser(ctx context.Context, i int) (*models.User, error) {
	username := fmt.Sprintf("%s%d", strings.ToLower(s.fake.Username()), i)
	u := &models.User{
		Username:  username,
		Email:     username + "@ruya.dev",
		FullName:  s.fake.Name(),
		Bio:       s.fake.Sentence(10),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.fake.UUID()),
		IsActive:  true,
		Role:      models.UserRoleUser,
	}
	if i%10 == 9 {
		u.Role = models.UserRoleImam
	}
	if err := s.svc.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.stats.Users++
	return u, nil
}

func (s *Seeder) createPost(ctx context.Context, owner *models.User, users []*models.User) (*models.Post, error) {
	dream := &models.Dream{
		UserID:      owner.ID,
		Title:       strings.TrimSuffix(s.fake.Sentence(4), "."),
		Description: s.fake.Paragraph(1, 3, 12, " "),
		Privacy:     models.DreamPrivacyPublic,
	}
	if err := s.svc.Dreams.Create(ctx, dream); err != nil {
		return nil, err
	}

	var mentions []uint
	if s.fake.Number(0, 3) == 0 {
		if m := s.pick(users); m.ID != owner.ID {
			mentions = append(mentions, m.ID)
		}
	}

	post, err := s.svc.Posts.CreatePost(ctx, service.CreatePostInput{
		UserID:                 owner.ID,
		DreamID:                dream.ID,
		Caption:                s.fake.Sentence(12),
		InterpretationIncluded: s.fake.Bool(),
		Mentions:               mentions,
	})
	if err != nil {
		return nil, err
	}
	s.stats.Posts++
	return post, nil
}

func (s *Seeder) engage(ctx context.Context, p *models.Post, users []*models.User) error {
	for i := 0; i < s.opts.LikesPerPost; i++ {
		u := s.pick(users)
		if _, err := s.svc.Engagement.Like(ctx, u.ID, p.ID); err != nil {
			if err := skipConflict(err); err != nil {
				return fmt.Errorf("like: %w", err)
			}
			continue
		}
		s.stats.Likes++
	}

	var previous *models.Comment
	for i := 0; i < s.opts.CommentsPerPost; i++ {
		in := service.CreateCommentInput{
			UserID: s.pick(users).ID,
			PostID: p.ID,
			Text:   s.fake.Sentence(s.fake.Number(3, 15)),
		}
		if previous != nil && s.fake.Bool() {
			in.ParentCommentID = &previous.ID
		}
		c, err := s.svc.Comments.CreateComment(ctx, in)
		if err != nil {
			return fmt.Errorf("comment: %w", err)
		}
		previous = c
		s.stats.Comments++
	}

	if s.fake.Number(0, 2) == 0 {
		u := s.pick(users)
		if _, err := s.svc.Engagement.Share(ctx, u.ID, p.ID, s.fake.Sentence(6)); err != nil {
			if err := skipConflict(err); err != nil {
				return fmt.Errorf("share: %w", err)
			}
		} else {
			s.stats.Shares++
		}
	}
	return nil
}

func skipConflict(err error) error {
	if models.HasCode(err, models.CodeConflict) {
		return nil
	}
	return err
}

func (s *Seeder) pick(users []*models.User) *models.User {
	return users[s.fake.Number(0, len(users)-1)]
}
