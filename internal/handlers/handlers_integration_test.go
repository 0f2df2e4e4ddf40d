package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"microblog/internal/app"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/middleware"
	"microblog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "foobar"

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

// setupApp builds the full application over a private in-memory SQLite
// database.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.JWTSecret = "test_jwt_secret"
	cfg.DatabaseDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := database.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	web, err := app.New(cfg, db, zap.NewNop(), app.Options{})
	require.NoError(t, err)
	return &testEnv{app: web, db: db}
}

func (e *testEnv) createUser(t *testing.T, name, email string, admin bool) *models.User {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Name: name, Email: email, PasswordDigest: string(digest), Admin: admin}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createMicropost(t *testing.T, user *models.User, content string, age time.Duration) *models.Micropost {
	t.Helper()
	post := &models.Micropost{Content: content, UserID: user.ID, CreatedAt: time.Now().Add(-age)}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

// browser keeps cookies between requests and follows redirects the way a
// user agent does.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
	current string
}

type page struct {
	Status int
	Path   string
	Body   string
}

var titleRe = regexp.MustCompile(`(?s)<title>(.*?)</title>`)

func (p *page) Title() string {
	m := titleRe.FindStringSubmatch(p.Body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, app: e.app, cookies: map[string]string{}}
}

func (b *browser) do(method, path string, form url.Values) *page {
	b.t.Helper()
	for redirects := 0; redirects < 10; redirects++ {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req := httptest.NewRequest(method, path, body)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		if b.current != "" {
			req.Header.Set("Referer", "http://example.com"+b.current)
		}
		for name, value := range b.cookies {
			req.AddCookie(&http.Cookie{Name: name, Value: value})
		}

		resp, err := b.app.Test(req, -1)
		require.NoError(b.t, err)
		for _, c := range resp.Cookies() {
			if c.Value == "" || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
				delete(b.cookies, c.Name)
			} else {
				b.cookies[c.Name] = c.Value
			}
		}

		switch resp.StatusCode {
		case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther:
			resp.Body.Close()
			method, path, form = http.MethodGet, resp.Header.Get("Location"), nil
			continue
		}

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(b.t, err)
		b.current = path
		return &page{Status: resp.StatusCode, Path: path, Body: string(raw)}
	}
	b.t.Fatalf("too many redirects for %s %s", method, path)
	return nil
}

func (b *browser) visit(path string) *page {
	b.t.Helper()
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) submit(path string, form url.Values) *page {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

// click follows a data-method link the way the layout script does.
func (b *browser) click(href, method string) *page {
	b.t.Helper()
	return b.submit(href, url.Values{"_method": {method}})
}

func (b *browser) signIn(email, password string) *page {
	b.t.Helper()
	return b.submit("/sessions", url.Values{"email": {email}, "password": {password}})
}

func userForm(name, email, password, confirmation string) url.Values {
	return url.Values{
		"name":                  {name},
		"email":                 {email},
		"password":              {password},
		"password_confirmation": {confirmation},
	}
}

func TestStaticPages(t *testing.T) {
	env := setupApp(t)
	b := env.browser(t)

	p := b.visit("/")
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Equal(t, "Rspecing", p.Title())
	assert.Contains(t, p.Body, "Rspecing")

	p = b.visit("/static_pages/home")
	assert.Contains(t, p.Body, "Rspecing")
	assert.Equal(t, "Rspecing | Home", p.Title())

	for path, name := range map[string]string{
		"/static_pages/help":    "Help",
		"/static_pages/about":   "About",
		"/static_pages/contact": "Contact",
		"/help":                 "Help",
		"/about":                "About",
		"/contact":              "Contact",
	} {
		p = b.visit(path)
		assert.Equal(t, http.StatusOK, p.Status, path)
		assert.Contains(t, p.Body, name, path)
		assert.Equal(t, "Rspecing | "+name, p.Title(), path)
	}
}

func TestUnknownPages(t *testing.T) {
	env := setupApp(t)
	b := env.browser(t)

	assert.Equal(t, http.StatusNotFound, b.visit("/users/9999").Status)
	assert.Equal(t, http.StatusNotFound, b.visit("/users/abc").Status)
	assert.Equal(t, http.StatusNotFound, b.visit("/nowhere").Status)
}

func TestSignupPage(t *testing.T) {
	env := setupApp(t)
	p := env.browser(t).visit("/signup")

	assert.Contains(t, p.Body, "<h1>Sign up</h1>")
	assert.Equal(t, "Rspecing | Sign up", p.Title())
	assert.Contains(t, p.Body, `value="Create my account"`)
	for _, label := range []string{">Name<", ">Email<", ">Password<", ">Confirmation<"} {
		assert.Contains(t, p.Body, label)
	}
}

func TestSignupWithInvalidInformation(t *testing.T) {
	env := setupApp(t)
	b := env.browser(t)
	b.visit("/signup")

	p := b.submit("/users", userForm("", "", "", ""))
	assert.Equal(t, int64(0), env.count(t, &models.User{}))
	assert.Contains(t, p.Title(), "Sign up")
	assert.Contains(t, p.Body, "error")
	assert.Contains(t, p.Body, "error_explanation")

	p = b.submit("/users", userForm("Example User", "user@example,com", "foo", "bar"))
	assert.Equal(t, int64(0), env.count(t, &models.User{}))
	assert.Contains(t, p.Body, "The form contains 3 errors.")
	assert.Contains(t, p.Body, "Email is invalid")
	assert.Contains(t, p.Body, "Password is too short (minimum is 6 characters)")
	assert.Contains(t, p.Body, `value="Example User"`)
}

func TestSignupWithValidInformation(t *testing.T) {
	env := setupApp(t)
	b := env.browser(t)
	b.visit("/signup")

	p := b.submit("/users", userForm("Example User", "user@example.com", "foobar", "foobar"))
	assert.Equal(t, int64(1), env.count(t, &models.User{}))

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "user@example.com").First(&user).Error)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), p.Path)
	assert.Contains(t, p.Title(), user.Name)
	assert.Contains(t, p.Body, ">Sign out</a>")
	assert.Regexp(t, `<div class="alert alert-success">Welcome`, p.Body)

	// The flash shows once.
	p = b.visit(p.Path)
	assert.NotContains(t, p.Body, "Welcome to the Sample App!")

	p = b.click("/signout", "delete")
	assert.Equal(t, "/", p.Path)
	assert.Contains(t, p.Body, ">Sign in</a>")
	assert.NotContains(t, p.Body, ">Sign out</a>")
}

func TestSignupEmailIsCaseInsensitive(t *testing.T) {
	env := setupApp(t)
	env.createUser(t, "First", "user@example.com", false)
	b := env.browser(t)

	p := b.submit("/users", userForm("Second", "USER@Example.com", "foobar", "foobar"))
	assert.Equal(t, int64(1), env.count(t, &models.User{}))
	assert.Contains(t, p.Body, "Email has already been taken")

	p = b.signIn("USER@EXAMPLE.COM", testPassword)
	assert.Contains(t, p.Title(), "First")
}

func TestSignIn(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Signer", "signer@example.com", false)
	b := env.browser(t)

	p := b.visit("/signin")
	assert.Equal(t, "Rspecing | Sign in", p.Title())

	p = b.signIn("signer@example.com", "wrong")
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, `<div class="alert alert-error">Invalid email/password combination</div>`)
	assert.Contains(t, p.Body, ">Sign in</a>")

	p = b.visit("/")
	assert.NotContains(t, p.Body, "Invalid email/password combination")

	p = b.signIn("signer@example.com", testPassword)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), p.Path)
	assert.Contains(t, p.Body, `href="/signout"`)
	assert.Contains(t, p.Body, fmt.Sprintf(`href="/users/%d/edit"`, user.ID))
}

func TestSignedOutTokenCannotBeReused(t *testing.T) {
	env := setupApp(t)
	env.createUser(t, "Signer", "signer@example.com", false)
	b := env.browser(t)

	b.signIn("signer@example.com", testPassword)
	token := b.cookies[middleware.SessionCookie]
	require.NotEmpty(t, token)

	b.click("/signout", "delete")
	assert.Empty(t, b.cookies[middleware.SessionCookie])

	b.cookies[middleware.SessionCookie] = token
	p := b.visit("/users")
	assert.Equal(t, "/signin", p.Path)
	assert.Contains(t, p.Body, "Please sign in.")
}

func TestUsersIndexRequiresSignInAndForwards(t *testing.T) {
	env := setupApp(t)
	env.createUser(t, "Member", "member@example.com", false)
	b := env.browser(t)

	p := b.visit("/users")
	assert.Equal(t, "/signin", p.Path)
	assert.Contains(t, p.Body, "Please sign in.")

	p = b.signIn("member@example.com", testPassword)
	assert.Equal(t, "/users", p.Path)
	assert.Equal(t, "Rspecing | All users", p.Title())

	// Forwarding happens once only.
	b.click("/signout", "delete")
	p = b.signIn("member@example.com", testPassword)
	assert.NotEqual(t, "/users", p.Path)
}

func TestUsersIndexPagination(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Member", "member@example.com", false)
	for i := 1; i <= 30; i++ {
		env.createUser(t, fmt.Sprintf("Person %d", i), fmt.Sprintf("person-%d@example.com", i), false)
	}
	b := env.browser(t)
	b.signIn(user.Email, testPassword)

	p := b.visit("/users")
	assert.Contains(t, p.Body, "<h1>All users</h1>")
	assert.Contains(t, p.Body, `<div class="pagination">`)
	assert.Contains(t, p.Body, ">Member</a>")
	for i := 1; i <= 29; i++ {
		assert.Contains(t, p.Body, fmt.Sprintf(">Person %d</a>", i))
	}
	assert.NotContains(t, p.Body, ">Person 30</a>")
	assert.NotContains(t, p.Body, ">delete</a>")

	p = b.visit("/users?page=2")
	assert.Contains(t, p.Body, ">Person 30</a>")
	assert.NotContains(t, p.Body, ">Member</a>")
}

func TestUsersIndexWithoutPagination(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Member", "member@example.com", false)
	b := env.browser(t)
	b.signIn(user.Email, testPassword)

	p := b.visit("/users")
	assert.NotContains(t, p.Body, `class="pagination"`)
}

func TestAdminDeleteLinks(t *testing.T) {
	env := setupApp(t)
	first := env.createUser(t, "First", "first@example.com", false)
	for i := 1; i <= 30; i++ {
		env.createUser(t, fmt.Sprintf("Person %d", i), fmt.Sprintf("person-%d@example.com", i), false)
	}
	admin := env.createUser(t, "Admin", "admin@example.com", true)
	b := env.browser(t)
	b.signIn(admin.Email, testPassword)

	p := b.visit("/users")
	assert.Contains(t, p.Body, fmt.Sprintf(`<a href="/users/%d" data-method="delete"`, first.ID))

	p = b.visit("/users?page=2")
	assert.Contains(t, p.Body, ">Admin</a>")
	assert.NotContains(t, p.Body, fmt.Sprintf(`<a href="/users/%d" data-method="delete"`, admin.ID))

	before := env.count(t, &models.User{})
	p = b.click(fmt.Sprintf("/users/%d", first.ID), "delete")
	assert.Equal(t, before-1, env.count(t, &models.User{}))
	assert.Equal(t, "/users", p.Path)
	assert.Contains(t, p.Body, "User destroyed.")
}

func TestDeletingUserRemovesMicroposts(t *testing.T) {
	env := setupApp(t)
	victim := env.createUser(t, "Victim", "victim@example.com", false)
	env.createMicropost(t, victim, "gone soon", time.Minute)
	admin := env.createUser(t, "Admin", "admin@example.com", true)
	b := env.browser(t)
	b.signIn(admin.Email, testPassword)

	b.click(fmt.Sprintf("/users/%d", victim.ID), "delete")
	assert.Equal(t, int64(0), env.count(t, &models.Micropost{}))
}

func TestDeleteIsRefusedForNonAdminsAndSelf(t *testing.T) {
	env := setupApp(t)
	member := env.createUser(t, "Member", "member@example.com", false)
	other := env.createUser(t, "Other", "other@example.com", false)
	admin := env.createUser(t, "Admin", "admin@example.com", true)

	b := env.browser(t)
	b.signIn(member.Email, testPassword)
	p := b.click(fmt.Sprintf("/users/%d", other.ID), "delete")
	assert.Equal(t, "/", p.Path)
	assert.Equal(t, int64(3), env.count(t, &models.User{}))

	b = env.browser(t)
	b.signIn(admin.Email, testPassword)
	p = b.click(fmt.Sprintf("/users/%d", admin.ID), "delete")
	assert.Equal(t, "/", p.Path)
	assert.Equal(t, int64(3), env.count(t, &models.User{}))

	// Anonymous visitors are sent to sign in.
	p = env.browser(t).click(fmt.Sprintf("/users/%d", other.ID), "delete")
	assert.Equal(t, "/signin", p.Path)
	assert.Equal(t, int64(3), env.count(t, &models.User{}))
}

func TestProfilePage(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Profiled", "profiled@example.com", false)
	env.createMicropost(t, user, "Foo", time.Hour)
	env.createMicropost(t, user, "Bar", time.Minute)

	p := env.browser(t).visit(fmt.Sprintf("/users/%d", user.ID))
	assert.Contains(t, p.Body, "Profiled")
	assert.Contains(t, p.Title(), "Profiled")
	assert.Contains(t, p.Body, "Foo")
	assert.Contains(t, p.Body, "Bar")
	assert.Contains(t, p.Body, "Microposts (2)")
	assert.Contains(t, p.Body, "2 microposts")
	assert.Less(t, strings.Index(p.Body, ">Bar<"), strings.Index(p.Body, ">Foo<"))

	// Not the owner: no delete links.
	assert.NotContains(t, p.Body, ">delete</a>")

	other := env.createUser(t, "Other", "other@example.com", false)
	b := env.browser(t)
	b.signIn(other.Email, testPassword)
	p = b.visit(fmt.Sprintf("/users/%d", user.ID))
	assert.NotContains(t, p.Body, ">delete</a>")
}

func TestMicropostPagination(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Poster", "poster@example.com", false)
	for i := 0; i < 50; i++ {
		env.createMicropost(t, user, fmt.Sprintf("le post %02d", i), time.Duration(i)*time.Minute)
	}
	b := env.browser(t)

	p := b.visit(fmt.Sprintf("/users/%d", user.ID))
	assert.Contains(t, p.Body, `<div class="pagination">`)
	for i := 0; i < 30; i++ {
		assert.Contains(t, p.Body, fmt.Sprintf(">le post %02d<", i))
	}
	assert.NotContains(t, p.Body, ">le post 30<")

	p = b.visit(fmt.Sprintf("/users/%d?page=2", user.ID))
	for i := 30; i < 50; i++ {
		assert.Contains(t, p.Body, fmt.Sprintf(">le post %02d<", i))
	}
}

func TestEditPage(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Editor", "editor@example.com", false)
	b := env.browser(t)
	b.signIn(user.Email, testPassword)

	p := b.visit(fmt.Sprintf("/users/%d/edit", user.ID))
	assert.Contains(t, p.Body, "Update your profile")
	assert.Contains(t, p.Title(), "Edit user")
	assert.Contains(t, p.Body, `<a href="http://gravatar.com/emails"`)
	assert.Contains(t, p.Body, ">change</a>")
	assert.Contains(t, p.Body, `value="Save changes"`)
}

func TestEditWithInvalidInformation(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Editor", "editor@example.com", false)
	b := env.browser(t)
	b.signIn(user.Email, testPassword)
	b.visit(fmt.Sprintf("/users/%d/edit", user.ID))

	form := userForm("Renamed", user.Email, "foobar", "barfoo")
	form.Set("_method", "patch")
	p := b.submit(fmt.Sprintf("/users/%d", user.ID), form)
	assert.Contains(t, p.Body, "error")
	assert.Contains(t, p.Body, "Password confirmation doesn&#39;t match Password")
	assert.Contains(t, p.Title(), "Edit user")

	form = userForm("", "new@example.com", "", "")
	form.Set("_method", "patch")
	p = b.submit(fmt.Sprintf("/users/%d", user.ID), form)
	assert.Contains(t, p.Body, "error")
	assert.Contains(t, p.Body, "Name can&#39;t be blank")
	assert.NotContains(t, p.Body, "Password can&#39;t be blank")

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Editor", reloaded.Name)
	assert.Equal(t, "editor@example.com", reloaded.Email)
}

func TestEditWithValidInformation(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Editor", "editor@example.com", false)
	b := env.browser(t)
	b.signIn(user.Email, testPassword)
	b.visit(fmt.Sprintf("/users/%d/edit", user.ID))

	form := userForm("New Name", "new@example.com", testPassword, testPassword)
	form.Set("_method", "patch")
	p := b.submit(fmt.Sprintf("/users/%d", user.ID), form)

	assert.Contains(t, p.Title(), "New Name")
	assert.Contains(t, p.Body, `<div class="alert alert-success">Profile updated</div>`)
	assert.Contains(t, p.Body, `<a href="/signout" data-method="delete" rel="nofollow">Sign out</a>`)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "New Name", reloaded.Name)
	assert.Equal(t, "new@example.com", reloaded.Email)

	// The new email signs in.
	b.click("/signout", "delete")
	p = b.signIn("new@example.com", testPassword)
	assert.Contains(t, p.Title(), "New Name")
}

func TestEditWithoutChangingPassword(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Editor", "editor@example.com", false)
	b := env.browser(t)
	b.signIn(user.Email, testPassword)

	form := userForm("Renamed", user.Email, "", "")
	form.Set("_method", "patch")
	p := b.submit(fmt.Sprintf("/users/%d", user.ID), form)
	assert.Contains(t, p.Title(), "Renamed")
	assert.Contains(t, p.Body, `<div class="alert alert-success">Profile updated</div>`)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Renamed", reloaded.Name)
	assert.Equal(t, user.PasswordDigest, reloaded.PasswordDigest)

	b.click("/signout", "delete")
	p = b.signIn(user.Email, testPassword)
	assert.Contains(t, p.Title(), "Renamed")
}

func TestEditRequiresTheCorrectUser(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Editor", "editor@example.com", false)
	intruder := env.createUser(t, "Intruder", "intruder@example.com", false)

	p := env.browser(t).visit(fmt.Sprintf("/users/%d/edit", user.ID))
	assert.Equal(t, "/signin", p.Path)

	b := env.browser(t)
	b.signIn(intruder.Email, testPassword)
	p = b.visit(fmt.Sprintf("/users/%d/edit", user.ID))
	assert.Equal(t, "/", p.Path)

	form := userForm("Hacked", "hacked@example.com", testPassword, testPassword)
	form.Set("_method", "patch")
	p = b.submit(fmt.Sprintf("/users/%d", user.ID), form)
	assert.Equal(t, "/", p.Path)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Editor", reloaded.Name)
}

func TestMicropostCreation(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Poster", "poster@example.com", false)
	b := env.browser(t)
	b.signIn(user.Email, testPassword)

	p := b.visit("/")
	assert.Contains(t, p.Body, `id="micropost_content"`)
	assert.Contains(t, p.Body, `value="Post"`)

	p = b.submit("/microposts", url.Values{"content": {""}})
	assert.Equal(t, int64(0), env.count(t, &models.Micropost{}))
	assert.Contains(t, p.Body, "error")

	p = b.submit("/microposts", url.Values{"content": {strings.Repeat("x", 141)}})
	assert.Equal(t, int64(0), env.count(t, &models.Micropost{}))
	assert.Contains(t, p.Body, "Content is too long (maximum is 140 characters)")

	p = b.submit("/microposts", url.Values{"content": {"Lorem ipsum"}})
	assert.Equal(t, int64(1), env.count(t, &models.Micropost{}))
	assert.Equal(t, "/", p.Path)
	assert.Contains(t, p.Body, "Micropost created!")
	assert.Contains(t, p.Body, "Lorem ipsum")
}

func TestMicropostCreationRequiresSignIn(t *testing.T) {
	env := setupApp(t)

	p := env.browser(t).submit("/microposts", url.Values{"content": {"Lorem ipsum"}})
	assert.Equal(t, "/signin", p.Path)
	assert.Equal(t, int64(0), env.count(t, &models.Micropost{}))
}

var micropostDeleteRe = regexp.MustCompile(`<a href="(/microposts/\d+)" data-method="delete"`)

func TestMicropostDestruction(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Poster", "poster@example.com", false)
	env.createMicropost(t, user, "Doomed", time.Minute)
	b := env.browser(t)
	b.signIn(user.Email, testPassword)

	p := b.visit("/")
	m := micropostDeleteRe.FindStringSubmatch(p.Body)
	require.NotNil(t, m, "home page should offer a delete link")

	p = b.click(m[1], "delete")
	assert.Equal(t, int64(0), env.count(t, &models.Micropost{}))
	assert.Equal(t, "/", p.Path)
}

func TestMicropostDestructionByAnotherUser(t *testing.T) {
	env := setupApp(t)
	owner := env.createUser(t, "Owner", "owner@example.com", false)
	post := env.createMicropost(t, owner, "Mine", time.Minute)
	other := env.createUser(t, "Other", "other@example.com", false)
	b := env.browser(t)
	b.signIn(other.Email, testPassword)

	p := b.click(fmt.Sprintf("/microposts/%d", post.ID), "delete")
	assert.Equal(t, http.StatusNotFound, p.Status)
	assert.Equal(t, int64(1), env.count(t, &models.Micropost{}))
}

func TestMicropostCount(t *testing.T) {
	env := setupApp(t)
	user := env.createUser(t, "Poster", "poster@example.com", false)
	b := env.browser(t)
	b.signIn(user.Email, testPassword)

	env.createMicropost(t, user, "one", time.Minute)
	p := b.visit("/")
	assert.Contains(t, p.Body, "1 micropost<")

	env.createMicropost(t, user, "two", time.Second)
	p = b.visit("/")
	assert.Contains(t, p.Body, "2 microposts")
}
