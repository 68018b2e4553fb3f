// Package forumtest runs an in-process forum that follows the Mediavida page
// structure closely enough to exercise the forum client end to end.
package forumtest

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/charmap"
)

const sessionCookie = "mv_session"

type Post struct {
	ID       int
	Thread   int
	Title    string
	Content  string
	Time     time.Time
	Locked   bool // no edit link is shown
	FailWith int  // status returned when the edit is submitted
}

type Submission struct {
	PostID int
	Form   url.Values
}

type Forum struct {
	User     string
	Password string
	PerPage  int
	Latin1   bool // serve pages as ISO-8859-1

	posts       []*Post // newest first
	token       string
	session     string
	submissions []Submission
	listings    []int
	mu          sync.Mutex
	server      *httptest.Server
}

// New creates a forum whose user history holds posts, newest first.
func New(user, password string, perPage int, posts []*Post) *Forum {
	if perPage <= 0 {
		perPage = 20
	}
	return &Forum{
		User:     user,
		Password: password,
		PerPage:  perPage,
		posts:    posts,
		token:    randomHex(),
	}
}

func (f *Forum) Start() string {
	f.server = httptest.NewServer(f.Router())
	return f.server.URL
}

func (f *Forum) Close() {
	if f.server != nil {
		f.server.Close()
	}
}

func (f *Forum) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/login", f.getLogin)
	r.POST("/login", f.postLogin)
	r.GET("/id/:user/posts/:page", f.getListing)
	r.GET("/post/:id", f.requirePost, f.getPost)
	r.GET("/post/:id/edit", f.requireSession, f.requirePost, f.getEdit)
	r.POST("/post/:id/edit", f.requireSession, f.requirePost, f.postEdit)

	return r
}

func (f *Forum) Content(id int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post := f.find(id); post != nil {
		return post.Content
	}
	return ""
}

func (f *Forum) Submissions() []Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Submission(nil), f.submissions...)
}

// ListingRequests returns the listing pages requested so far, in order.
func (f *Forum) ListingRequests() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listings...)
}

func (f *Forum) TotalPages() int {
	if len(f.posts) == 0 {
		return 1
	}
	return (len(f.posts) + f.PerPage - 1) / f.PerPage
}

func (f *Forum) getLogin(c *gin.Context) {
	f.render(c, http.StatusOK, "login", gin.H{"Token": f.token})
}

func (f *Forum) postLogin(c *gin.Context) {
	ok := c.PostForm("_token") == f.token &&
		c.PostForm("name") == f.User &&
		c.PostForm("password") == f.Password

	if ok {
		f.mu.Lock()
		f.session = randomHex()
		session := f.session
		f.mu.Unlock()
		c.SetCookie(sessionCookie, session, 3600, "/", "", false, true)
	}

	f.render(c, http.StatusOK, "home", gin.H{"LoggedIn": ok})
}

func (f *Forum) getListing(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 || c.Param("user") != f.User {
		c.Status(http.StatusNotFound)
		return
	}

	f.mu.Lock()
	f.listings = append(f.listings, page)
	var visible []Post
	start := (page - 1) * f.PerPage
	for i := start; i < start+f.PerPage && i < len(f.posts); i++ {
		visible = append(visible, *f.posts[i])
	}
	f.mu.Unlock()

	pages := make([]int, 0, f.TotalPages())
	for p := 1; p <= f.TotalPages(); p++ {
		pages = append(pages, p)
	}

	f.render(c, http.StatusOK, "listing", gin.H{
		"User":  f.User,
		"Pages": pages,
		"Posts": visible,
	})
}

func (f *Forum) requireSession(c *gin.Context) {
	if !f.loggedIn(c) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.Next()
}

func (f *Forum) requirePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	f.mu.Lock()
	post := f.find(id)
	f.mu.Unlock()

	if post == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Set("post", post)
	c.Next()
}

func (f *Forum) getPost(c *gin.Context) {
	post := c.MustGet("post").(*Post)

	f.mu.Lock()
	snapshot := *post
	f.mu.Unlock()

	f.render(c, http.StatusOK, "post", gin.H{
		"Post":     snapshot,
		"Editable": f.loggedIn(c) && !snapshot.Locked,
	})
}

func (f *Forum) getEdit(c *gin.Context) {
	post := c.MustGet("post").(*Post)

	f.mu.Lock()
	snapshot := *post
	f.mu.Unlock()

	if snapshot.Locked {
		c.Status(http.StatusForbidden)
		return
	}
	f.render(c, http.StatusOK, "edit", gin.H{"Post": snapshot, "Token": f.token})
}

func (f *Forum) postEdit(c *gin.Context) {
	post := c.MustGet("post").(*Post)
	if c.PostForm("_token") != f.token {
		c.Status(http.StatusUnprocessableEntity)
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.submissions = append(f.submissions, Submission{PostID: post.ID, Form: c.Request.PostForm})
	if post.FailWith != 0 {
		c.Status(post.FailWith)
		return
	}
	post.Content = c.PostForm("cuerpo")
	c.Redirect(http.StatusFound, "/post/"+strconv.Itoa(post.ID))
}

func (f *Forum) loggedIn(c *gin.Context) bool {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session != "" && cookie == f.session
}

func (f *Forum) find(id int) *Post {
	for _, post := range f.posts {
		if post.ID == id {
			return post
		}
	}
	return nil
}

func (f *Forum) render(c *gin.Context, status int, name string, data gin.H) {
	charset := "utf-8"
	if f.Latin1 {
		charset = "iso-8859-1"
	}
	data["Charset"] = charset

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	body := buf.Bytes()
	if f.Latin1 {
		encoded, err := charmap.ISO8859_1.NewEncoder().Bytes(body)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		body = encoded
	}

	c.Data(status, "text/html; charset="+charset, body)
}

func randomHex() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// History builds n posts, newest first, one every step going back from newest.
func History(n int, newest time.Time, step time.Duration) []*Post {
	posts := make([]*Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, &Post{
			ID:      i + 1,
			Thread:  1000 + i/3,
			Title:   "Post número " + strconv.Itoa(i+1),
			Content: "Contenido original " + strconv.Itoa(i+1),
			Time:    newest.Add(-time.Duration(i) * step),
		})
	}
	return posts
}
