// Package seed populates the database with demo users and posts for
// development and testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	NumPosts     int
	ShouldClean  bool
	RecordAuthor bool
	MaxDays      int
}

// Seeder writes generated rows through gorm.
type Seeder struct {
	db       *gorm.DB
	faker    *gofakeit.Faker
	rng      *rand.Rand
	hashCost int
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	seed := time.Now().UnixNano()
	return &Seeder{
		db:       db,
		faker:    gofakeit.New(seed),
		rng:      rand.New(rand.NewSource(seed)),
		hashCost: bcrypt.DefaultCost,
	}
}

// Run applies opts end to end and returns the created users and posts.
func (s *Seeder) Run(opts Options) ([]models.User, []models.Post, error) {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return nil, nil, err
		}
	}
	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.SeedPosts(users, opts.NumPosts, opts.RecordAuthor, opts.MaxDays)
	if err != nil {
		return nil, nil, err
	}
	return users, posts, nil
}

// ClearAll deletes every post and user.
func (s *Seeder) ClearAll() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	return nil
}

// SeedUsers creates n users sharing DefaultPassword. Usernames and emails are
// suffixed with a sequence number so repeated runs never collide.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	if n <= 0 {
		return nil, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.hashCost)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.Model(&models.User{}).Count(&existing).Error; err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		seq := existing + int64(i) + 1
		users = append(users, models.User{
			FirstName:    s.faker.FirstName(),
			LastName:     s.faker.LastName(),
			Username:     fmt.Sprintf("%s%d", s.faker.Username(), seq),
			Age:          s.faker.Number(18, 80),
			Email:        fmt.Sprintf("user%d@%s", seq, s.faker.DomainName()),
			PasswordHash: string(hash),
		})
	}

	if err := s.db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

// SeedPosts creates n posts with unique titles and bodies, dated within the
// last maxDays days and inserted oldest first.
func (s *Seeder) SeedPosts(users []models.User, n int, recordAuthor bool, maxDays int) ([]models.Post, error) {
	if n <= 0 {
		return nil, nil
	}
	if maxDays <= 0 {
		maxDays = 90
	}

	var existing int64
	if err := s.db.Model(&models.Post{}).Count(&existing).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	step := time.Duration(maxDays) * 24 * time.Hour / time.Duration(n)
	start := now.Add(-time.Duration(maxDays) * 24 * time.Hour)

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		seq := existing + int64(i) + 1
		post := models.Post{
			Title:      fmt.Sprintf("%s #%d", s.faker.Sentence(5), seq),
			Content:    fmt.Sprintf("%s\n\n(entry %d)", s.faker.Paragraph(1, 3, 8, " "), seq),
			DatePosted: start.Add(time.Duration(i) * step),
		}
		if recordAuthor && len(users) > 0 {
			authorID := users[s.rng.Intn(len(users))].ID
			post.AuthorID = &authorID
		}
		posts = append(posts, post)
	}

	if err := s.db.CreateInBatches(&posts, 100).Error; err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	return posts, nil
}
