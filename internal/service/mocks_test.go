package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// Mock implementations for testing

type MockUserRepository struct {
	users          map[string]*models.User
	byAccountID    map[string]*models.User
	byUniqueID     map[string]*models.User
	uniqueIDChecks int

	// pendingCollisions makes ExistsByUniqueID report the next N candidate
	// ids as taken, regardless of stored users
	pendingCollisions int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:       make(map[string]*models.User),
		byAccountID: make(map[string]*models.User),
		byUniqueID:  make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.byAccountID[strings.ToLower(user.AccountID)]; ok {
		return utils.NewDuplicateError("User", "account_id", user.AccountID)
	}
	if _, ok := m.byUniqueID[user.UniqueID]; ok {
		return utils.NewDuplicateError("User", "unique_id", user.UniqueID)
	}

	m.users[user.ID] = user
	m.byAccountID[strings.ToLower(user.AccountID)] = user
	m.byUniqueID[user.UniqueID] = user

	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	user, ok := m.byAccountID[strings.ToLower(accountID)]
	if !ok {
		return nil, utils.NewNotFoundError("User", accountID)
	}
	return user, nil
}

func (m *MockUserRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*models.User, error) {
	user, ok := m.byUniqueID[uniqueID]
	if !ok {
		return nil, utils.NewNotFoundError("User", uniqueID)
	}
	return user, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return utils.NewNotFoundError("User", user.ID)
	}

	m.users[user.ID] = user
	m.byAccountID[strings.ToLower(user.AccountID)] = user
	m.byUniqueID[user.UniqueID] = user

	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}

	delete(m.byAccountID, strings.ToLower(user.AccountID))
	delete(m.byUniqueID, user.UniqueID)
	delete(m.users, id)

	return nil
}

func (m *MockUserRepository) ExistsByAccountID(ctx context.Context, accountID string) (bool, error) {
	_, ok := m.byAccountID[strings.ToLower(accountID)]
	return ok, nil
}

func (m *MockUserRepository) ExistsByUniqueID(ctx context.Context, uniqueID string) (bool, error) {
	m.uniqueIDChecks++
	if m.pendingCollisions > 0 {
		m.pendingCollisions--
		return true, nil
	}

	_, ok := m.byUniqueID[uniqueID]
	return ok, nil
}

type MockSessionRepository struct {
	sessions        map[string]*models.Session
	sessionsByJWTID map[string]*models.Session
	sessionsByUser  map[string][]*models.Session
	nextID          int
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions:        make(map[string]*models.Session),
		sessionsByJWTID: make(map[string]*models.Session),
		sessionsByUser:  make(map[string][]*models.Session),
	}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		m.nextID++
		session.ID = fmt.Sprintf("session-%d", m.nextID)
	}

	m.sessions[session.ID] = session
	m.sessionsByJWTID[session.JWTID] = session
	m.sessionsByUser[session.UserID] = append(m.sessionsByUser[session.UserID], session)

	return nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, utils.NewNotFoundError("Session", id)
	}
	return session, nil
}

func (m *MockSessionRepository) GetByJWTID(ctx context.Context, jwtID string) (*models.Session, error) {
	session, ok := m.sessionsByJWTID[jwtID]
	if !ok {
		return nil, utils.NewNotFoundError("Session", jwtID)
	}
	return session, nil
}

func (m *MockSessionRepository) GetActiveByUserID(ctx context.Context, userID string) ([]*models.Session, error) {
	var active []*models.Session
	now := time.Now()

	for _, session := range m.sessionsByUser[userID] {
		if session.ExpiresAt.After(now) {
			active = append(active, session)
		}
	}

	return active, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	session, ok := m.sessions[id]
	if !ok {
		return utils.NewNotFoundError("Session", id)
	}

	delete(m.sessionsByJWTID, session.JWTID)
	delete(m.sessions, id)

	var remaining []*models.Session
	for _, s := range m.sessionsByUser[session.UserID] {
		if s.ID != id {
			remaining = append(remaining, s)
		}
	}
	m.sessionsByUser[session.UserID] = remaining

	return nil
}

func (m *MockSessionRepository) DeleteByJWTID(ctx context.Context, jwtID string) error {
	session, ok := m.sessionsByJWTID[jwtID]
	if !ok {
		return utils.NewNotFoundError("Session", jwtID)
	}
	return m.Delete(ctx, session.ID)
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	for _, session := range m.sessionsByUser[userID] {
		delete(m.sessionsByJWTID, session.JWTID)
		delete(m.sessions, session.ID)
	}
	delete(m.sessionsByUser, userID)

	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var count int64
	now := time.Now()

	for id, session := range m.sessions {
		if session.ExpiresAt.Before(now) {
			if err := m.Delete(ctx, id); err == nil {
				count++
			}
		}
	}

	return count, nil
}

func (m *MockSessionRepository) IsValidSession(ctx context.Context, jwtID string) (bool, error) {
	session, ok := m.sessionsByJWTID[jwtID]
	if !ok {
		return false, nil
	}
	return !session.IsExpired(), nil
}

type MockSocialLinkRepository struct {
	links  map[int64]*models.SocialLink
	nextID int64
}

func NewMockSocialLinkRepository() *MockSocialLinkRepository {
	return &MockSocialLinkRepository{
		links:  make(map[int64]*models.SocialLink),
		nextID: 1,
	}
}

func (m *MockSocialLinkRepository) Create(ctx context.Context, link *models.SocialLink) error {
	link.ID = m.nextID
	m.nextID++

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	m.links[link.ID] = link

	return nil
}

func (m *MockSocialLinkRepository) GetByID(ctx context.Context, id int64) (*models.SocialLink, error) {
	link, ok := m.links[id]
	if !ok {
		return nil, utils.NewNotFoundError("SocialLink", id)
	}
	return link, nil
}

func (m *MockSocialLinkRepository) GetByUserID(ctx context.Context, userID string) ([]*models.SocialLink, error) {
	var links []*models.SocialLink
	for _, link := range m.links {
		if link.UserID == userID {
			links = append(links, link)
		}
	}

	// Insertion order, matching the id-ordered query
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })

	return links, nil
}

func (m *MockSocialLinkRepository) Update(ctx context.Context, link *models.SocialLink) error {
	if _, ok := m.links[link.ID]; !ok {
		return utils.NewNotFoundError("SocialLink", link.ID)
	}
	m.links[link.ID] = link
	return nil
}

func (m *MockSocialLinkRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.links[id]; !ok {
		return utils.NewNotFoundError("SocialLink", id)
	}
	delete(m.links, id)
	return nil
}

func (m *MockSocialLinkRepository) DeleteByUserID(ctx context.Context, userID string) error {
	for id, link := range m.links {
		if link.UserID == userID {
			delete(m.links, id)
		}
	}
	return nil
}

type MockIdeaRepository struct {
	ideas  map[int64]*models.Idea
	nextID int64
}

func NewMockIdeaRepository() *MockIdeaRepository {
	return &MockIdeaRepository{
		ideas:  make(map[int64]*models.Idea),
		nextID: 1,
	}
}

func (m *MockIdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	idea.ID = m.nextID
	m.nextID++

	now := time.Now()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	if idea.UpdatedAt.IsZero() {
		idea.UpdatedAt = now
	}
	m.ideas[idea.ID] = idea

	return nil
}

func (m *MockIdeaRepository) GetByID(ctx context.Context, id int64) (*models.Idea, error) {
	idea, ok := m.ideas[id]
	if !ok {
		return nil, utils.NewNotFoundError("Idea", id)
	}
	return idea, nil
}

func (m *MockIdeaRepository) GetByUserID(ctx context.Context, userID string, publishedOnly bool) ([]*models.Idea, error) {
	var ideas []*models.Idea
	for _, idea := range m.ideas {
		if idea.UserID != userID {
			continue
		}
		if publishedOnly && !idea.IsPublished {
			continue
		}
		ideas = append(ideas, idea)
	}

	// Newest first, matching the query ordering
	sort.Slice(ideas, func(i, j int) bool { return ideas[i].ID > ideas[j].ID })

	return ideas, nil
}

func (m *MockIdeaRepository) ListPublished(ctx context.Context, tag string, page, pageSize int) ([]*models.Idea, int, error) {
	var published []*models.Idea
	for _, idea := range m.ideas {
		if !idea.IsPublished {
			continue
		}
		if tag != "" && idea.Tag != tag {
			continue
		}
		published = append(published, idea)
	}

	sort.Slice(published, func(i, j int) bool { return published[i].ID > published[j].ID })

	total := len(published)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return published[start:end], total, nil
}

func (m *MockIdeaRepository) Update(ctx context.Context, idea *models.Idea) error {
	if _, ok := m.ideas[idea.ID]; !ok {
		return utils.NewNotFoundError("Idea", idea.ID)
	}
	idea.UpdatedAt = time.Now()
	m.ideas[idea.ID] = idea
	return nil
}

func (m *MockIdeaRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.ideas[id]; !ok {
		return utils.NewNotFoundError("Idea", id)
	}
	delete(m.ideas, id)
	return nil
}

func (m *MockIdeaRepository) CountByTag(ctx context.Context, userID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, idea := range m.ideas {
		if idea.UserID == userID {
			counts[idea.Tag]++
		}
	}
	return counts, nil
}

func (m *MockIdeaRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, idea := range m.ideas {
		if idea.UserID == userID {
			count++
		}
	}
	return count, nil
}

type MockProfileSecretRepository struct {
	secrets map[string]*models.ProfileSecret
	nextID  int64
}

func NewMockProfileSecretRepository() *MockProfileSecretRepository {
	return &MockProfileSecretRepository{
		secrets: make(map[string]*models.ProfileSecret),
		nextID:  1,
	}
}

func (m *MockProfileSecretRepository) Upsert(ctx context.Context, secret *models.ProfileSecret) error {
	if existing, ok := m.secrets[secret.UserID]; ok {
		secret.ID = existing.ID
		secret.CreatedAt = existing.CreatedAt
	} else {
		secret.ID = m.nextID
		m.nextID++
		secret.CreatedAt = time.Now()
	}
	secret.UpdatedAt = time.Now()
	m.secrets[secret.UserID] = secret

	return nil
}

func (m *MockProfileSecretRepository) GetByUserID(ctx context.Context, userID string) (*models.ProfileSecret, error) {
	secret, ok := m.secrets[userID]
	if !ok {
		return nil, utils.NewNotFoundError("ProfileSecret", userID)
	}
	return secret, nil
}

func (m *MockProfileSecretRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, ok := m.secrets[userID]; !ok {
		return utils.NewNotFoundError("ProfileSecret", userID)
	}
	delete(m.secrets, userID)
	return nil
}

type MockProfileViewRepository struct {
	views  []*models.ProfileView
	nextID int64
}

func NewMockProfileViewRepository() *MockProfileViewRepository {
	return &MockProfileViewRepository{nextID: 1}
}

func (m *MockProfileViewRepository) Create(ctx context.Context, view *models.ProfileView) error {
	view.ID = m.nextID
	m.nextID++

	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now()
	}
	m.views = append(m.views, view)

	return nil
}

func (m *MockProfileViewRepository) HasRecentView(ctx context.Context, userID, viewerKey string, since time.Time) (bool, error) {
	for _, view := range m.views {
		if view.UserID == userID && view.ViewerKey == viewerKey && !view.ViewedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockProfileViewRepository) CountTotal(ctx context.Context, userID string, since time.Time) (int, error) {
	count := 0
	for _, view := range m.views {
		if view.UserID == userID && !view.ViewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockProfileViewRepository) CountDistinctViewers(ctx context.Context, userID string, since time.Time) (int, error) {
	viewers := make(map[string]struct{})
	for _, view := range m.views {
		if view.UserID == userID && !view.ViewedAt.Before(since) {
			viewers[view.ViewerKey] = struct{}{}
		}
	}
	return len(viewers), nil
}

func (m *MockProfileViewRepository) GetDailyCounts(ctx context.Context, userID string, from time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	for _, view := range m.views {
		if view.UserID == userID && !view.ViewedAt.Before(from) {
			counts[view.ViewedAt.Format("2006-01-02")]++
		}
	}
	return counts, nil
}

// MockIdentityGateway implements auth.IdentityGateway over an in-memory
// account map. Tokens are real JWTs so the refresh flow can round-trip them.
type MockIdentityGateway struct {
	jwtService  *auth.JWTService
	accounts    map[string]*models.Account
	passwords   map[string]string
	nextSubject int

	// CreateAccountCalls counts registrations so tests can assert that a
	// workflow stopped before reaching the identity provider
	CreateAccountCalls int

	// GenerateTokensCalls counts token issuances so tests can assert that
	// a failed login never minted tokens
	GenerateTokensCalls int
}

func NewMockIdentityGateway(jwtService *auth.JWTService) *MockIdentityGateway {
	return &MockIdentityGateway{
		jwtService: jwtService,
		accounts:   make(map[string]*models.Account),
		passwords:  make(map[string]string),
	}
}

// AddAccount seeds a pre-existing identity account and returns its subject id.
func (m *MockIdentityGateway) AddAccount(email, password string) string {
	m.nextSubject++
	id := fmt.Sprintf("subject-%d", m.nextSubject)
	m.accounts[email] = models.NewAccount(id, email)
	m.passwords[email] = password
	return id
}

func (m *MockIdentityGateway) CreateAccount(ctx context.Context, email, password string) (string, error) {
	m.CreateAccountCalls++

	if _, ok := m.accounts[email]; ok {
		return "", utils.NewDuplicateError("account", "email", email)
	}
	if err := utils.ValidatePassword(password); err != nil {
		return "", err
	}

	return m.AddAccount(email, password), nil
}

func (m *MockIdentityGateway) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, ok := m.accounts[email]
	if !ok || m.passwords[email] != password {
		return nil, utils.NewInvalidCredentialsError()
	}
	return account, nil
}

func (m *MockIdentityGateway) GenerateTokens(userID, accountID, email string) (*auth.TokenPair, error) {
	m.GenerateTokensCalls++

	accessToken, accessJWTID, err := m.jwtService.GenerateAccessToken(userID, accountID, email)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshJWTID, err := m.jwtService.GenerateRefreshToken(userID, accountID, email)
	if err != nil {
		return nil, err
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		AccessJWTID:  accessJWTID,
		RefreshToken: refreshToken,
		RefreshJWTID: refreshJWTID,
		ExpiresIn:    m.jwtService.GetConfig().Expiry,
	}, nil
}

func (m *MockIdentityGateway) SignOut(refreshToken string) (string, error) {
	jwtID, err := m.jwtService.ParseTokenWithoutValidation(refreshToken)
	if err != nil {
		return "", utils.NewInvalidTokenError()
	}
	return jwtID, nil
}
