package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"bookbridge/internal/domain/entity"
	"bookbridge/internal/domain/repository"
	"bookbridge/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// In-memory fakes for the repository and service interfaces. They behave like
// the real store for the happy paths and expose knobs for error injection.

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string               { return &s }
func intPtr(i int) *int                     { return &i }
func boardPtr(b entity.Board) *entity.Board { return &b }

// --- user repository ---

type memUserRepo struct {
	users     map[uuid.UUID]*entity.User
	order     []uuid.UUID
	updateErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (m *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (m *memUserRepo) ListAll(_ context.Context) ([]*entity.User, error) {
	result := make([]*entity.User, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.users[id])
	}

	return result, nil
}

func (m *memUserRepo) SearchByNameEmailPhone(_ context.Context, query string) ([]*entity.User, error) {
	q := strings.ToLower(query)
	var result []*entity.User
	for _, id := range m.order {
		user := m.users[id]
		phone := ""
		if user.Phone != nil {
			phone = *user.Phone
		}
		if strings.Contains(strings.ToLower(user.Name), q) ||
			strings.Contains(strings.ToLower(user.Email), q) ||
			strings.Contains(strings.ToLower(phone), q) {
			result = append(result, user)
		}
	}

	return result, nil
}

func (m *memUserRepo) CountByRole(_ context.Context, role entity.Role) (int64, error) {
	var count int64
	for _, user := range m.users {
		if user.Role == role {
			count++
		}
	}

	return count, nil
}

func (m *memUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	m.order = append(m.order, user.ID)

	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *entity.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	m.users[user.ID] = user

	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)

	return nil
}

// --- auth repository ---

type memAuthRepo struct {
	auths  map[string]*entity.Authentication
	tokens map[string]*entity.RefreshToken
	purged []uuid.UUID
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{
		auths:  make(map[string]*entity.Authentication),
		tokens: make(map[string]*entity.RefreshToken),
	}
}

func (m *memAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	m.auths[auth.ProviderID] = auth

	return nil
}

func (m *memAuthRepo) FindAuthenticationByEmail(_ context.Context, email string) (*entity.Authentication, error) {
	auth, ok := m.auths[email]
	if !ok {
		return nil, repository.ErrAuthNotFound
	}

	return auth, nil
}

func (m *memAuthRepo) UpdatePasswordHash(_ context.Context, authID uuid.UUID, passwordHash string) error {
	for _, auth := range m.auths {
		if auth.ID == authID {
			auth.PasswordHash = passwordHash

			return nil
		}
	}

	return repository.ErrAuthNotFound
}

func (m *memAuthRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	m.tokens[token.TokenHash] = token

	return nil
}

func (m *memAuthRepo) FindRefreshTokenByHash(_ context.Context, hash string) (*entity.RefreshToken, error) {
	token, ok := m.tokens[hash]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}

	return token, nil
}

func (m *memAuthRepo) DeleteRefreshTokenByHash(_ context.Context, hash string) error {
	if _, ok := m.tokens[hash]; !ok {
		return repository.ErrTokenNotFound
	}
	delete(m.tokens, hash)

	return nil
}

func (m *memAuthRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	m.purged = append(m.purged, userID)
	for hash, token := range m.tokens {
		if token.UserID == userID {
			delete(m.tokens, hash)
		}
	}

	return nil
}

// purgeCount reports how often the all-sessions purge ran for a user.
func (m *memAuthRepo) purgeCount(userID uuid.UUID) int {
	count := 0
	for _, id := range m.purged {
		if id == userID {
			count++
		}
	}

	return count
}

// sessionCount reports how many live sessions a user holds.
func (m *memAuthRepo) sessionCount(userID uuid.UUID) int {
	count := 0
	for _, token := range m.tokens {
		if token.UserID == userID {
			count++
		}
	}

	return count
}

// --- donation repository ---

type memDonationRepo struct {
	donations []*entity.Donation

	// readFailures fails that many reads with readErr before succeeding.
	readFailures int
	readErr      error
	readCalls    int
	lastFilter   repository.SearchFilter
}

func newMemDonationRepo() *memDonationRepo {
	return &memDonationRepo{readErr: errors.New("store unavailable")}
}

func (m *memDonationRepo) read() error {
	m.readCalls++
	if m.readFailures > 0 {
		m.readFailures--

		return m.readErr
	}

	return nil
}

func (m *memDonationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Donation, error) {
	if err := m.read(); err != nil {
		return nil, err
	}
	for _, donation := range m.donations {
		if donation.ID == id {
			return donation, nil
		}
	}

	return nil, repository.ErrDonationNotFound
}

func (m *memDonationRepo) Create(_ context.Context, donation *entity.Donation) error {
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	m.donations = append(m.donations, donation)

	return nil
}

func (m *memDonationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.DonationStatus) error {
	for _, donation := range m.donations {
		if donation.ID == id {
			donation.Status = status

			return nil
		}
	}

	return repository.ErrDonationNotFound
}

func (m *memDonationRepo) ListApproved(_ context.Context) ([]*entity.Donation, error) {
	if err := m.read(); err != nil {
		return nil, err
	}
	var result []*entity.Donation
	for _, donation := range m.donations {
		if donation.Status == entity.DonationStatusApproved {
			result = append(result, donation)
		}
	}

	return result, nil
}

func (m *memDonationRepo) ListAll(_ context.Context) ([]*entity.Donation, error) {
	if err := m.read(); err != nil {
		return nil, err
	}

	return append([]*entity.Donation(nil), m.donations...), nil
}

func (m *memDonationRepo) ListByDonorEmail(_ context.Context, email string) ([]*entity.Donation, error) {
	if err := m.read(); err != nil {
		return nil, err
	}
	var result []*entity.Donation
	for _, donation := range m.donations {
		if donation.DonorEmail == email {
			result = append(result, donation)
		}
	}

	return result, nil
}

func (m *memDonationRepo) Search(_ context.Context, filter repository.SearchFilter) ([]*entity.Donation, error) {
	if err := m.read(); err != nil {
		return nil, err
	}
	m.lastFilter = filter

	term := strings.ToLower(filter.Term)
	var result []*entity.Donation
	for _, donation := range m.donations {
		if donation.Status != entity.DonationStatusApproved {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(searchValue(donation, filter.Field)), term) {
			continue
		}
		if filter.LocationText != "" &&
			!strings.Contains(strings.ToLower(donation.Location.Address), strings.ToLower(filter.LocationText)) {
			continue
		}
		result = append(result, donation)
	}

	return result, nil
}

func searchValue(donation *entity.Donation, field repository.SearchField) string {
	switch field {
	case repository.SearchFieldCategory:
		return string(donation.Category)
	case repository.SearchFieldSubject:
		if donation.Subject != nil {
			return *donation.Subject
		}

		return ""
	default:
		return donation.Title
	}
}

func (m *memDonationRepo) CountByStatus(_ context.Context, status entity.DonationStatus) (int64, error) {
	if err := m.read(); err != nil {
		return 0, err
	}
	var count int64
	for _, donation := range m.donations {
		if donation.Status == status {
			count++
		}
	}

	return count, nil
}

// --- transaction manager ---

// fakeTxManager runs the transactional function directly against the shared
// fakes. Rollback is not simulated; failure-path tests arrange their failures
// before any write happens.
type fakeTxManager struct {
	userRepo     *memUserRepo
	authRepo     *memAuthRepo
	donationRepo *memDonationRepo
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(f)
}

func (f *fakeTxManager) UserRepo() repository.UserRepository         { return f.userRepo }
func (f *fakeTxManager) AuthRepo() repository.AuthRepository         { return f.authRepo }
func (f *fakeTxManager) DonationRepo() repository.DonationRepository { return f.donationRepo }

// --- password hasher ---

type fakeHasher struct {
	failHash bool
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.failHash {
		return "", errors.New("hash unavailable")
	}

	return "hashed:" + password, nil
}

func (f *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// --- token service ---

type fakeTokenService struct {
	counter       int
	lastRole      string
	refreshClaims map[string]*service.Claims
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{refreshClaims: make(map[string]*service.Claims)}
}

func (f *fakeTokenService) GenerateTokens(userID uuid.UUID, role string) (string, string, error) {
	f.counter++
	f.lastRole = role

	accessToken := fmt.Sprintf("access-%d", f.counter)
	refreshToken := fmt.Sprintf("refresh-%d", f.counter)
	f.refreshClaims[refreshToken] = &service.Claims{UserID: userID, Role: role, Type: "refresh"}

	return accessToken, refreshToken, nil
}

func (f *fakeTokenService) ValidateAccessToken(string) (*service.Claims, error) {
	return nil, errors.New("access token validation not exercised here")
}

func (f *fakeTokenService) ValidateRefreshToken(token string) (*service.Claims, error) {
	claims, ok := f.refreshClaims[token]
	if !ok {
		return nil, errors.New("unknown refresh token")
	}

	return claims, nil
}

func (f *fakeTokenService) HashToken(token string) string {
	return "h:" + token
}

func (f *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}
