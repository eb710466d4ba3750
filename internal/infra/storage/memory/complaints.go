package memory

import (
	"context"
	"sort"
	"sync"

	domaincomplaint "guesthub/internal/domain/complaint"
)

// ComplaintRepository stores guest complaints in memory.
type ComplaintRepository struct {
	mu    sync.RWMutex
	items map[domaincomplaint.ID]*domaincomplaint.Complaint
}

func NewComplaintRepository() *ComplaintRepository {
	return &ComplaintRepository{items: make(map[domaincomplaint.ID]*domaincomplaint.Complaint)}
}

func (r *ComplaintRepository) ByID(ctx context.Context, id domaincomplaint.ID) (*domaincomplaint.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domaincomplaint.ErrNotFound
	}
	return cloneComplaint(c), nil
}

func (r *ComplaintRepository) Save(ctx context.Context, c *domaincomplaint.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = cloneComplaint(c)
	return nil
}

// ListByGuest returns the guest's complaints newest-first.
func (r *ComplaintRepository) ListByGuest(ctx context.Context, guestID string) ([]*domaincomplaint.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincomplaint.Complaint, 0)
	for _, c := range r.items {
		if c.GuestID == guestID {
			out = append(out, cloneComplaint(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneComplaint(c *domaincomplaint.Complaint) *domaincomplaint.Complaint {
	if c == nil {
		return nil
	}
	copyComplaint := *c
	return &copyComplaint
}
