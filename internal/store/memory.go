package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

// copyDoc deep-copies src into dst through a BSON round trip, so in-memory
// records behave like stored documents (including millisecond time precision).
func copyDoc(dst, src interface{}) error {
	raw, err := bson.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := bson.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// applySet merges top-level fields into doc the way $set does.
func applySet(doc interface{}, set map[string]interface{}) error {
	var m bson.M
	if err := copyDoc(&m, doc); err != nil {
		return err
	}
	for k, v := range set {
		m[k] = v
	}
	return copyDoc(doc, m)
}

// NewMemoryStores returns a fresh set of in-memory stores.
func NewMemoryStores() *Stores {
	return &Stores{
		Accounts:       NewMemoryAccountStore(),
		Listings:       NewMemoryListingStore(),
		Inquiries:      NewMemoryInquiryStore(),
		Favorites:      NewMemoryFavoriteStore(),
		EmailTemplates: NewMemoryEmailTemplateStore(),
	}
}

// MemoryAccountStore is an AccountStore held in process memory.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: map[string]*models.Account{}}
}

func (s *MemoryAccountStore) GetByID(_ context.Context, uid string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[uid]
	if !ok {
		return nil, ErrNotFound
	}
	var out models.Account
	if err := copyDoc(&out, acc); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryAccountStore) Upsert(_ context.Context, uid string, set, setOnInsert map[string]interface{}) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[uid]
	if !ok {
		acc = &models.Account{UID: uid}
		onInsert := map[string]interface{}{}
		for k, v := range setOnInsert {
			onInsert[k] = v
		}
		onInsert["uid"] = uid
		if err := applySet(acc, onInsert); err != nil {
			return nil, err
		}
	}
	next := &models.Account{}
	if err := copyDoc(next, acc); err != nil {
		return nil, err
	}
	if err := applySet(next, set); err != nil {
		return nil, err
	}
	s.accounts[uid] = next

	var out models.Account
	if err := copyDoc(&out, next); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryAccountStore) ListAll(ctx context.Context) ([]models.Account, error) {
	return s.list(func(*models.Account) bool { return true })
}

func (s *MemoryAccountStore) ListByRoles(_ context.Context, roles ...models.Role) ([]models.Account, error) {
	return s.list(func(a *models.Account) bool {
		for _, r := range roles {
			if a.Role == r {
				return true
			}
		}
		return false
	})
}

func (s *MemoryAccountStore) list(keep func(*models.Account) bool) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Account{}
	for _, acc := range s.accounts {
		if !keep(acc) {
			continue
		}
		var c models.Account
		if err := copyDoc(&c, acc); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].UID < out[j].UID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryAccountStore) SetRole(_ context.Context, uid string, role models.Role, at time.Time) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[uid]
	if !ok {
		return nil, ErrNotFound
	}
	if err := applySet(acc, map[string]interface{}{"role": role, "updatedAt": at}); err != nil {
		return nil, err
	}
	var out models.Account
	if err := copyDoc(&out, acc); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryAccountStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.accounts)), nil
}

func (s *MemoryAccountStore) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, acc := range s.accounts {
		if !acc.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// MemoryListingStore is a ListingStore held in process memory.
type MemoryListingStore struct {
	mu       sync.RWMutex
	listings map[string]*models.Listing
}

func NewMemoryListingStore() *MemoryListingStore {
	return &MemoryListingStore{listings: map[string]*models.Listing{}}
}

func (s *MemoryListingStore) Insert(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = utils.NewID()
	if _, exists := s.listings[l.ID]; exists {
		return ErrDuplicate
	}
	stored := &models.Listing{}
	if err := copyDoc(stored, l); err != nil {
		return err
	}
	s.listings[l.ID] = stored
	return nil
}

func (s *MemoryListingStore) GetByID(_ context.Context, id string) (*models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	var out models.Listing
	if err := copyDoc(&out, l); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryListingStore) ListActive(_ context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Listing{}
	for _, l := range s.listings {
		if l.Status != models.ListingStatusActive || !filter.Matches(l) {
			continue
		}
		var c models.Listing
		if err := copyDoc(&c, l); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryListingStore) Update(_ context.Context, id string, set map[string]interface{}) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if l.Status == models.ListingStatusDeleted {
		return nil, ErrDeleted
	}
	if err := applySet(l, set); err != nil {
		return nil, err
	}
	var out models.Listing
	if err := copyDoc(&out, l); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryListingStore) AppendImage(_ context.Context, id, url string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return ErrNotFound
	}
	if l.Status == models.ListingStatusDeleted {
		return ErrDeleted
	}
	for _, existing := range l.Images {
		if existing == url {
			return applySet(l, map[string]interface{}{"updatedAt": at})
		}
	}
	images := append(append([]string{}, l.Images...), url)
	return applySet(l, map[string]interface{}{"images": images, "updatedAt": at})
}

func (s *MemoryListingStore) CountByStatus(_ context.Context, status models.ListingStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, l := range s.listings {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

// MemoryInquiryStore is an InquiryStore held in process memory.
type MemoryInquiryStore struct {
	mu        sync.RWMutex
	inquiries map[string]*models.Inquiry
}

func NewMemoryInquiryStore() *MemoryInquiryStore {
	return &MemoryInquiryStore{inquiries: map[string]*models.Inquiry{}}
}

func (s *MemoryInquiryStore) Insert(_ context.Context, inq *models.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inq.ID = utils.NewID()
	if _, exists := s.inquiries[inq.ID]; exists {
		return ErrDuplicate
	}
	stored := &models.Inquiry{}
	if err := copyDoc(stored, inq); err != nil {
		return err
	}
	s.inquiries[inq.ID] = stored
	return nil
}

func (s *MemoryInquiryStore) GetByID(_ context.Context, id string) (*models.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inq, ok := s.inquiries[id]
	if !ok {
		return nil, ErrNotFound
	}
	var out models.Inquiry
	if err := copyDoc(&out, inq); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryInquiryStore) ListByUser(_ context.Context, userID string) ([]models.Inquiry, error) {
	return s.list(func(inq *models.Inquiry) bool { return inq.UserID == userID })
}

func (s *MemoryInquiryStore) ListAll(_ context.Context) ([]models.Inquiry, error) {
	return s.list(func(*models.Inquiry) bool { return true })
}

func (s *MemoryInquiryStore) list(keep func(*models.Inquiry) bool) ([]models.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Inquiry{}
	for _, inq := range s.inquiries {
		if !keep(inq) {
			continue
		}
		var c models.Inquiry
		if err := copyDoc(&c, inq); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryInquiryStore) UpdateStatus(_ context.Context, id string, status models.InquiryStatus, at time.Time) (*models.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inq, ok := s.inquiries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := applySet(inq, map[string]interface{}{"status": status, "updatedAt": at}); err != nil {
		return nil, err
	}
	var out models.Inquiry
	if err := copyDoc(&out, inq); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryInquiryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.inquiries)), nil
}

func (s *MemoryInquiryStore) CountByStatus(_ context.Context, status models.InquiryStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, inq := range s.inquiries {
		if inq.Status == status {
			n++
		}
	}
	return n, nil
}

// MemoryFavoriteStore is a FavoriteStore held in process memory. The
// (userId, propertyId) pair is unique, as with the Mongo index.
type MemoryFavoriteStore struct {
	mu        sync.RWMutex
	favorites map[string]*models.Favorite // keyed by userId + "\x00" + propertyId
}

func NewMemoryFavoriteStore() *MemoryFavoriteStore {
	return &MemoryFavoriteStore{favorites: map[string]*models.Favorite{}}
}

func favoriteKey(userID, propertyID string) string {
	return userID + "\x00" + propertyID
}

func (s *MemoryFavoriteStore) Insert(_ context.Context, f *models.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := favoriteKey(f.UserID, f.PropertyID)
	if _, exists := s.favorites[key]; exists {
		return ErrDuplicate
	}
	f.ID = utils.NewID()
	stored := *f
	s.favorites[key] = &stored
	return nil
}

func (s *MemoryFavoriteStore) ListByUser(_ context.Context, userID string) ([]models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Favorite{}
	prefix := userID + "\x00"
	for key, f := range s.favorites {
		if strings.HasPrefix(key, prefix) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryFavoriteStore) Delete(_ context.Context, userID, propertyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites, favoriteKey(userID, propertyID))
	return nil
}

// MemoryEmailTemplateStore is an EmailTemplateStore held in process memory.
type MemoryEmailTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]models.EmailTemplate
}

func NewMemoryEmailTemplateStore() *MemoryEmailTemplateStore {
	return &MemoryEmailTemplateStore{templates: map[string]models.EmailTemplate{}}
}

func (s *MemoryEmailTemplateStore) Get(_ context.Context, templateID, locale string) (*models.EmailTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[templateID+"/"+locale]
	if !ok {
		return nil, ErrNotFound
	}
	return &tpl, nil
}

func (s *MemoryEmailTemplateStore) Save(_ context.Context, tpl *models.EmailTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.TemplateID+"/"+tpl.Locale] = *tpl
	return nil
}
