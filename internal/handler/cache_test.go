package handler_test

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-ticketing/internal/codec"
    "github.com/iliyamo/event-ticketing/internal/config"
    "github.com/iliyamo/event-ticketing/internal/middleware"
    "github.com/iliyamo/event-ticketing/internal/model"
)

// nameFillingUserRecord returns a user name long enough that the stored
// user record fits in codec.MaxRecordSize, but the same record with one
// ticket id and an updated_at timestamp does not.
func nameFillingUserRecord(t *testing.T, userID, ticketID uint64, at time.Time) string {
    t.Helper()
    for n := 1; n < codec.MaxRecordSize; n++ {
        before := model.User{
            ID:        userID,
            Name:      strings.Repeat("n", n),
            EventIDs:  []uint64{},
            TicketIDs: []uint64{},
            CreatedAt: at,
        }
        after := before
        after.TicketIDs = []uint64{ticketID}
        after.UpdatedAt = &at
        if _, err := codec.Marshal(before); err != nil {
            break
        }
        if _, err := codec.Marshal(after); errors.Is(err, codec.ErrRecordTooLarge) {
            return before.Name
        }
    }
    t.Fatal("no name length puts the user record on the size bound")
    return ""
}

func TestFailedTicketCreationInvalidatesCachedReads(t *testing.T) {
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { rdb.Close() })
    s := newServer(t, middleware.NewRedisCache(config.CacheConfig{
        Enabled:           true,
        Methods:           map[string]bool{http.MethodGet: true},
        TTL:               time.Minute,
        KeyStrategy:       "path_query",
        Prefix:            "cache",
        MaxBodyBytes:      1 << 20,
        InvalidateOnWrite: true,
    }, rdb))

    s.do(t, http.MethodPost, "/v1/events", `{"name":"gig"}`, nil)
    name := nameFillingUserRecord(t, 1, 2, time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC))
    body, _ := json.Marshal(model.UserPayload{Name: name})
    if code := s.do(t, http.MethodPost, "/v1/users", string(body), nil); code != http.StatusCreated {
        t.Fatalf("create user: status %d", code)
    }

    attendees := func() (*httptest.ResponseRecorder, []model.User) {
        rec := httptest.NewRecorder()
        s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events/0/attendees", nil))
        var list struct{ Items []model.User }
        if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
            t.Fatalf("decode %q: %v", rec.Body.String(), err)
        }
        return rec, list.Items
    }
    attendees()
    if rec, _ := attendees(); rec.Header().Get("X-Cache") != "HIT" {
        t.Fatal("expected the empty attendee list to be cached")
    }

    // Linking the ticket to the user overflows the user record.  The
    // attendee entry written before that stays in place.
    var failure struct {
        RolledBack bool `json:"rolled_back"`
    }
    if code := s.do(t, http.MethodPost, "/v1/tickets", `{"event_id":0,"user_id":1}`, &failure); code != http.StatusConflict {
        t.Fatalf("create ticket: status %d, want 409", code)
    }
    if !failure.RolledBack {
        t.Fatal("the ticket row compensation should have run")
    }

    rec, users := attendees()
    if rec.Header().Get("X-Cache") != "MISS" {
        t.Fatal("cached attendee list survived a write that changed the event")
    }
    if len(users) != 1 || users[0].ID != 1 {
        t.Fatalf("attendees = %+v, want user 1", users)
    }
}
