// Package seed fills an empty database with sample users and microposts.
package seed

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"microblog/internal/models"
	"microblog/internal/services"
)

// Options controls how much sample data is created.
type Options struct {
	Users        int // sample users besides the admin
	PostsPerUser int
	PostingUsers int // the first N users receive microposts
}

// DefaultOptions mirrors the classic sample data set.
var DefaultOptions = Options{Users: 99, PostsPerUser: 50, PostingUsers: 6}

// Admin credentials of the seeded administrator.
const (
	AdminName     = "Example User"
	AdminEmail    = "example@railstutorial.org"
	AdminPassword = "foobar"
)

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing
elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua enim
ad minim veniam quis nostrud exercitation ullamco laboris nisi aliquip ex ea
commodo consequat`)

// Sentence returns a deterministic filler sentence for post n.
func Sentence(n int) string {
	length := 5 + n%6
	parts := make([]string, length)
	for i := range parts {
		parts[i] = words[(n*7+i*3)%len(words)]
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// Run creates the admin, the sample users and their microposts through the
// services, so every record passes the same validation as user input.
func Run(userService *services.UserService, micropostService *services.MicropostService, logger *zap.Logger, opts Options) error {
	opts.Users = max(opts.Users, 0)
	opts.PostsPerUser = max(opts.PostsPerUser, 0)

	admin, err := userService.Create(services.UserInput{
		Name:                 AdminName,
		Email:                AdminEmail,
		Password:             AdminPassword,
		PasswordConfirmation: AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if err := userService.SetAdmin(admin.ID, true); err != nil {
		return fmt.Errorf("failed to grant admin: %w", err)
	}

	users := []*models.User{admin}
	for n := 1; n <= opts.Users; n++ {
		user, err := userService.Create(services.UserInput{
			Name:                 fmt.Sprintf("Sample User %d", n),
			Email:                fmt.Sprintf("example-%d@railstutorial.org", n),
			Password:             "password",
			PasswordConfirmation: "password",
		})
		if err != nil {
			return fmt.Errorf("failed to seed user %d: %w", n, err)
		}
		users = append(users, user)
	}
	logger.Info("Seeded users", zap.Int("count", len(users)))

	posting := min(max(opts.PostingUsers, 0), len(users))
	for i := 0; i < opts.PostsPerUser; i++ {
		for _, user := range users[:posting] {
			content := Sentence(i*posting + int(user.ID))
			if _, err := micropostService.Create(user, services.MicropostInput{Content: content}); err != nil {
				return fmt.Errorf("failed to seed micropost for user %d: %w", user.ID, err)
			}
		}
	}
	logger.Info("Seeded microposts", zap.Int("count", opts.PostsPerUser*posting))
	return nil
}
