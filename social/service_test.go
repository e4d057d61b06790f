package social

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naimatofficial/linkmood-app/apperr"
	"github.com/naimatofficial/linkmood-app/models"
)

// opLog records every remote call across fakes so tests can assert on
// ordering between the file store and the document stores.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) index(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, o := range l.ops {
		if o == op {
			return i
		}
	}
	return -1
}

func (l *opLog) count(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, o := range l.ops {
		if o == op {
			n++
		}
	}
	return n
}

func (l *opLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ops)
}

type fakeFiles struct {
	log        *opLog
	seq        int
	stored     map[string]bool
	uploadErr  error
	previewErr error
	deleteErr  error
}

func newFakeFiles(log *opLog) *fakeFiles {
	return &fakeFiles{log: log, stored: map[string]bool{}}
}

func (f *fakeFiles) Upload(_ context.Context, _ io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.seq++
	id := fmt.Sprintf("file-%d", f.seq)
	f.stored[id] = true
	f.log.add("files.upload:" + id)
	return id, nil
}

func (f *fakeFiles) PreviewURL(fileID string) (string, error) {
	if f.previewErr != nil {
		return "", f.previewErr
	}
	return "https://cdn.test/" + fileID, nil
}

func (f *fakeFiles) Delete(_ context.Context, fileID string) error {
	f.log.add("files.delete:" + fileID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.stored, fileID)
	return nil
}

type fakePosts struct {
	log       *opLog
	mu        sync.Mutex // background cache refreshes read while tests write
	docs      map[primitive.ObjectID]*models.Post
	createErr error
	updateErr error
}

func newFakePosts(log *opLog) *fakePosts {
	return &fakePosts{log: log, docs: map[primitive.ObjectID]*models.Post{}}
}

func (p *fakePosts) Create(_ context.Context, post *models.Post) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.add("posts.create")
	if p.createErr != nil {
		return p.createErr
	}
	cp := *post
	p.docs[post.ID] = &cp
	return nil
}

func (p *fakePosts) GetByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.add("posts.get")
	doc, ok := p.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (p *fakePosts) Update(_ context.Context, post *models.Post) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.add("posts.update")
	if p.updateErr != nil {
		return p.updateErr
	}
	if _, ok := p.docs[post.ID]; !ok {
		return ErrNotFound
	}
	cp := *post
	p.docs[post.ID] = &cp
	return nil
}

func (p *fakePosts) UpdateLikes(_ context.Context, id primitive.ObjectID, likes []string) (*models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.add("posts.updateLikes")
	doc, ok := p.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	doc.Likes = append([]string(nil), likes...)
	cp := *doc
	return &cp, nil
}

func (p *fakePosts) Delete(_ context.Context, id primitive.ObjectID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.add("posts.delete")
	if _, ok := p.docs[id]; !ok {
		return ErrNotFound
	}
	delete(p.docs, id)
	return nil
}

func (p *fakePosts) Recent(_ context.Context, _ int64) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.add("posts.recent")
	var out []models.Post
	for _, doc := range p.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (p *fakePosts) Search(_ context.Context, term string, _ int64) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Post
	for _, doc := range p.docs {
		if strings.Contains(doc.Caption, term) {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (p *fakePosts) ByCreator(_ context.Context, creatorID primitive.ObjectID) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Post
	for _, doc := range p.docs {
		if doc.CreatorID == creatorID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (p *fakePosts) LikedBy(_ context.Context, userID string) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Post
	for _, doc := range p.docs {
		for _, l := range doc.Likes {
			if l == userID {
				out = append(out, *doc)
				break
			}
		}
	}
	return out, nil
}

func (p *fakePosts) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Post
	for _, id := range ids {
		if doc, ok := p.docs[id]; ok {
			out = append(out, *doc)
		}
	}
	return out, nil
}

type fakeAccounts struct {
	byEmail   map[string]*models.Account
	createErr error
}

func (a *fakeAccounts) Create(_ context.Context, account *models.Account) error {
	if a.createErr != nil {
		return a.createErr
	}
	cp := *account
	a.byEmail[account.Email] = &cp
	return nil
}

func (a *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	acc, ok := a.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

type fakeUsers struct {
	docs      map[primitive.ObjectID]*models.User
	createErr error
}

func (u *fakeUsers) Create(_ context.Context, user *models.User) error {
	if u.createErr != nil {
		return u.createErr
	}
	cp := *user
	u.docs[user.ID] = &cp
	return nil
}

func (u *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	doc, ok := u.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (u *fakeUsers) GetByAccountID(_ context.Context, accountID primitive.ObjectID) (*models.User, error) {
	for _, doc := range u.docs {
		if doc.AccountID == accountID {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (u *fakeUsers) List(_ context.Context, _ int64) ([]models.User, error) {
	var out []models.User
	for _, doc := range u.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (u *fakeUsers) Update(_ context.Context, user *models.User) error {
	if _, ok := u.docs[user.ID]; !ok {
		return ErrNotFound
	}
	cp := *user
	u.docs[user.ID] = &cp
	return nil
}

type fakeSessions struct {
	docs map[primitive.ObjectID]*models.Session
}

func (s *fakeSessions) Create(_ context.Context, session *models.Session) error {
	cp := *session
	s.docs[session.ID] = &cp
	return nil
}

func (s *fakeSessions) Get(_ context.Context, id primitive.ObjectID) (*models.Session, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (s *fakeSessions) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

type fakeSaves struct {
	docs map[primitive.ObjectID]*models.Save
}

func (s *fakeSaves) Create(_ context.Context, save *models.Save) error {
	cp := *save
	s.docs[save.ID] = &cp
	return nil
}

func (s *fakeSaves) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *fakeSaves) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Save, error) {
	var out []models.Save
	for _, doc := range s.docs {
		if doc.UserID == userID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	log      *opLog
	files    *fakeFiles
	posts    *fakePosts
	accounts *fakeAccounts
	users    *fakeUsers
	sessions *fakeSessions
	saves    *fakeSaves
}

func newFixture() *fixture {
	log := &opLog{}
	f := &fixture{
		log:      log,
		files:    newFakeFiles(log),
		posts:    newFakePosts(log),
		accounts: &fakeAccounts{byEmail: map[string]*models.Account{}},
		users:    &fakeUsers{docs: map[primitive.ObjectID]*models.User{}},
		sessions: &fakeSessions{docs: map[primitive.ObjectID]*models.Session{}},
		saves:    &fakeSaves{docs: map[primitive.ObjectID]*models.Save{}},
	}
	f.svc = New(Deps{
		Accounts:  f.accounts,
		Sessions:  f.sessions,
		Users:     f.users,
		Posts:     f.posts,
		Saves:     f.saves,
		Files:     f.files,
		AvatarURL: "https://avatars.test/initials",
	})
	return f
}

func (f *fixture) seedPost(t *testing.T, caption, imageID string, likes ...string) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		CreatorID: primitive.NewObjectID(),
		Caption:   caption,
		ImageID:   imageID,
		ImageURL:  "https://cdn.test/" + imageID,
		Likes:     likes,
	}
	require.NoError(t, f.posts.Create(context.Background(), post))
	f.files.stored[imageID] = true
	return post
}

func TestCreatePostCompensatesUploadWhenDocumentCreateFails(t *testing.T) {
	f := newFixture()
	f.posts.createErr = errors.New("database rejected the document")

	_, err := f.svc.CreatePost(context.Background(), NewPost{
		CreatorID: primitive.NewObjectID(),
		Caption:   "hello",
		File:      strings.NewReader("img"),
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindCompensated, apperr.KindOf(err))
	assert.Empty(t, f.files.stored, "uploaded file must not remain in storage")
	assert.Equal(t, 1, f.log.count("files.delete:file-1"), "compensating delete runs exactly once")
}

func TestCreatePostCompensatesUploadWhenURLDerivationFails(t *testing.T) {
	f := newFixture()
	f.files.previewErr = errors.New("no preview")

	_, err := f.svc.CreatePost(context.Background(), NewPost{
		CreatorID: primitive.NewObjectID(),
		Caption:   "hello",
		File:      strings.NewReader("img"),
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindCompensated, apperr.KindOf(err))
	assert.Empty(t, f.files.stored)
	assert.Equal(t, 0, f.log.count("posts.create"), "document create must not run after derivation fails")
}

func TestCreatePostNormalizesTags(t *testing.T) {
	f := newFixture()

	post, err := f.svc.CreatePost(context.Background(), NewPost{
		CreatorID: primitive.NewObjectID(),
		Caption:   "hi",
		File:      strings.NewReader("img"),
		Tags:      "a, b ,c",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, post.Tags)
	assert.Equal(t, []string{"a", "b", "c"}, f.posts.docs[post.ID].Tags)
}

func TestUpdatePostFailedUpdateDeletesNewFileAndKeepsOld(t *testing.T) {
	f := newFixture()
	post := f.seedPost(t, "old caption", "old-file")
	f.posts.updateErr = errors.New("update rejected")

	_, err := f.svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID:  post.ID,
		Caption: "new caption",
		File:    strings.NewReader("new img"),
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindCompensated, apperr.KindOf(err))
	assert.False(t, f.files.stored["file-1"], "new upload must be rolled back")
	assert.True(t, f.files.stored["old-file"], "original file must remain")

	stored := f.posts.docs[post.ID]
	assert.Equal(t, "old caption", stored.Caption)
	assert.Equal(t, "old-file", stored.ImageID)
	assert.Equal(t, "https://cdn.test/old-file", stored.ImageURL)
}

func TestUpdatePostSuccessDeletesOldFileOnlyAfterUpdate(t *testing.T) {
	f := newFixture()
	post := f.seedPost(t, "old caption", "old-file")

	updated, err := f.svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID:  post.ID,
		Caption: "new caption",
		File:    strings.NewReader("new img"),
	})

	require.NoError(t, err)
	assert.Equal(t, "file-1", updated.ImageID)
	assert.False(t, f.files.stored["old-file"])

	updateIdx := f.log.index("posts.update")
	deleteIdx := f.log.index("files.delete:old-file")
	require.NotEqual(t, -1, updateIdx)
	require.NotEqual(t, -1, deleteIdx)
	assert.Less(t, updateIdx, deleteIdx, "old file may be deleted only after the document update succeeded")
}

func TestUpdatePostWithoutFileKeepsImage(t *testing.T) {
	f := newFixture()
	post := f.seedPost(t, "old caption", "old-file")

	updated, err := f.svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID:  post.ID,
		Caption: "new caption",
	})

	require.NoError(t, err)
	assert.Equal(t, "old-file", updated.ImageID)
	assert.True(t, f.files.stored["old-file"])
	assert.Equal(t, 0, f.log.count("files.delete:old-file"))
}

func TestDeletePostGuardsShortCircuitBeforeAnySideEffect(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.DeletePost(context.Background(), "", "img1"))
	require.NoError(t, f.svc.DeletePost(context.Background(), "post1", ""))

	assert.Equal(t, 0, f.log.len(), "no remote calls when an identifier is missing")
}

func TestDeletePostIgnoresFileDeletionFailure(t *testing.T) {
	f := newFixture()
	post := f.seedPost(t, "bye", "img-9")
	f.files.deleteErr = errors.New("storage down")

	err := f.svc.DeletePost(context.Background(), post.ID.Hex(), "img-9")

	require.NoError(t, err, "orphaned file is acceptable")
	assert.NotContains(t, f.posts.docs, post.ID)
}

func TestLikePostIsFullArrayOverwrite(t *testing.T) {
	f := newFixture()
	post := f.seedPost(t, "likeable", "img-1", "u1")

	updated, err := f.svc.LikePost(context.Background(), post.ID, []string{"u1", "u2", "u3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2", "u3"}, updated.Likes)

	// Shrinking the array is also a plain replace, not a merge.
	updated, err = f.svc.LikePost(context.Background(), post.ID, []string{"u3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u3"}, updated.Likes)
}

func TestLikePostConcurrentWritersLoseUpdates(t *testing.T) {
	f := newFixture()
	post := f.seedPost(t, "contested", "img-1", "u1")
	ctx := context.Background()

	// Both likers read the same base array before either writes.
	base, err := f.svc.GetPostByID(ctx, post.ID)
	require.NoError(t, err)

	likerA := append(append([]string(nil), base.Likes...), "u2")
	likerB := append(append([]string(nil), base.Likes...), "u3")

	_, err = f.svc.LikePost(ctx, post.ID, likerA)
	require.NoError(t, err)
	final, err := f.svc.LikePost(ctx, post.ID, likerB)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u3"}, final.Likes, "last writer wins; the first like is silently dropped")
	assert.NotContains(t, final.Likes, "u2")
}

func TestSavePostCreatesDuplicateJoinRecords(t *testing.T) {
	f := newFixture()
	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	ctx := context.Background()

	s1, err := f.svc.SavePost(ctx, userID, postID)
	require.NoError(t, err)
	s2, err := f.svc.SavePost(ctx, userID, postID)
	require.NoError(t, err)

	assert.NotEqual(t, s1.ID, s2.ID)
	assert.Len(t, f.saves.docs, 2, "no uniqueness constraint at this layer")
}

func TestDeleteSavedPostRemovesJoinRecord(t *testing.T) {
	f := newFixture()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	save, err := f.svc.SavePost(ctx, userID, primitive.NewObjectID())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSavedPost(ctx, save.ID))
	assert.Empty(t, f.saves.docs)

	err = f.svc.DeleteSavedPost(ctx, save.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSignUpSignInGetCurrentUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.svc.CreateUserAccount(ctx, NewUser{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		Username: "a1",
	})
	require.NoError(t, err)
	assert.Contains(t, user.ImageURL, "name=A", "default avatar derives from the name")

	session, err := f.svc.SignInAccount(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	current, err := f.svc.GetCurrentUser(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, user.AccountID, current.AccountID)
	assert.Equal(t, session.AccountID, current.AccountID)
	assert.Equal(t, "a1", current.Username)
}

func TestCreateUserAccountRejectsDuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateUserAccount(ctx, NewUser{Name: "A", Email: "a@x.com", Password: "secret1", Username: "a1"})
	require.NoError(t, err)

	_, err = f.svc.CreateUserAccount(ctx, NewUser{Name: "B", Email: "a@x.com", Password: "secret2", Username: "b1"})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestCreateUserAccountLeavesOrphanedAccountOnProfileFailure(t *testing.T) {
	f := newFixture()
	f.users.createErr = errors.New("profile insert failed")

	_, err := f.svc.CreateUserAccount(context.Background(), NewUser{
		Name: "A", Email: "a@x.com", Password: "secret1", Username: "a1",
	})

	require.Error(t, err)
	_, gerr := f.accounts.GetByEmail(context.Background(), "a@x.com")
	assert.NoError(t, gerr, "the auth identity stays behind; sign-up is not compensated")
}

func TestSignInWrongPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateUserAccount(ctx, NewUser{Name: "A", Email: "a@x.com", Password: "secret1", Username: "a1"})
	require.NoError(t, err)

	_, err = f.svc.SignInAccount(ctx, "a@x.com", "wrong")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestSignOutDeletesSessionAndCurrentUserLookupFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateUserAccount(ctx, NewUser{Name: "A", Email: "a@x.com", Password: "secret1", Username: "a1"})
	require.NoError(t, err)
	session, err := f.svc.SignInAccount(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.svc.SignOutAccount(ctx, session.ID))

	_, err = f.svc.GetCurrentUser(ctx, session.ID)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestGetSavedPostsSkipsDeletedPosts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	kept := f.seedPost(t, "kept", "img-kept")
	gone := f.seedPost(t, "gone", "img-gone")

	_, err := f.svc.SavePost(ctx, userID, kept.ID)
	require.NoError(t, err)
	_, err = f.svc.SavePost(ctx, userID, gone.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePost(ctx, gone.ID.Hex(), "img-gone"))

	saved, err := f.svc.GetSavedPosts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, kept.ID, saved[0].Post.ID)
}
