package repository

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// listHook answers the list commands TicketHistory uses from memory so
// the client never dials.
type listHook struct {
	mu      sync.Mutex
	lists   map[string][]string
	expires map[string]time.Duration
}

func newListHook() *listHook {
	return &listHook{lists: map[string][]string{}, expires: map[string]time.Duration{}}
}

func (h *listHook) DialHook(redis.DialHook) redis.DialHook {
	return func(context.Context, string, string) (net.Conn, error) {
		return nil, fmt.Errorf("dial not expected")
	}
}

func (h *listHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.apply(cmd)
		return cmd.Err()
	}
}

func (h *listHook) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.apply(cmd)
		}
		return nil
	}
}

func (h *listHook) apply(cmd redis.Cmder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	args := cmd.Args()
	switch cmd.Name() {
	case "lpush":
		key := args[1].(string)
		for _, v := range args[2:] {
			var s string
			switch v := v.(type) {
			case []byte:
				s = string(v)
			case string:
				s = v
			}
			h.lists[key] = append([]string{s}, h.lists[key]...)
		}
		cmd.(*redis.IntCmd).SetVal(int64(len(h.lists[key])))
	case "ltrim":
		key := args[1].(string)
		stop := int(args[3].(int64))
		if l := h.lists[key]; stop+1 < len(l) {
			h.lists[key] = l[:stop+1]
		}
		cmd.(*redis.StatusCmd).SetVal("OK")
	case "expire":
		h.expires[args[1].(string)] = time.Duration(args[2].(int64)) * time.Second
		cmd.(*redis.BoolCmd).SetVal(true)
	case "lrange":
		cmd.(*redis.StringSliceCmd).SetVal(append([]string(nil), h.lists[args[1].(string)]...))
	case "multi", "exec":
		if sc, ok := cmd.(*redis.StatusCmd); ok {
			sc.SetVal("OK")
		}
	default:
		cmd.SetErr(fmt.Errorf("unexpected command %s", cmd.Name()))
	}
}

func newTestHistory(t *testing.T, ttl time.Duration) (*TicketHistory, *listHook) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	hook := newListHook()
	client.AddHook(hook)
	t.Cleanup(func() { client.Close() })
	return NewTicketHistory(client, ttl), hook
}

func TestTicketHistory_AppendAndList(t *testing.T) {
	h, hook := newTestHistory(t, time.Hour)
	ctx := context.Background()

	first := sampleBooking()
	second := sampleBooking()
	second.ID = "BMS00FFFFFFFF"
	second.MovieTitle = "Dune"
	second.TheaterName = "INOX: Forum"
	for _, b := range []*model.CommittedBooking{first, second} {
		if err := h.Append(ctx, b); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	all, err := h.List(ctx, "42", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if len(all[1].Seats) != 2 || all[1].Seats[0].ID != "A1" {
		t.Fatalf("expected seats kept in order, got %+v", all[1].Seats)
	}

	hits, err := h.List(ctx, "42", "inox")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(hits) != 1 || hits[0].ID != second.ID {
		t.Fatalf("expected only %s, got %+v", second.ID, hits)
	}
	if got := hook.expires[ticketsKey("42")]; got != time.Hour {
		t.Fatalf("expected 1h expiry, got %v", got)
	}
}

func TestTicketHistory_EmptyAndCorrupt(t *testing.T) {
	h, hook := newTestHistory(t, 0)
	ctx := context.Background()

	got, err := h.List(ctx, "nobody", "")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", got, err)
	}

	if err := h.Append(ctx, sampleBooking()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	hook.lists[ticketsKey("42")] = append([]string{"{not json"}, hook.lists[ticketsKey("42")]...)
	got, err = h.List(ctx, "42", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected corrupt entry skipped, got %d entries", len(got))
	}
	if _, ok := hook.expires[ticketsKey("42")]; ok {
		t.Fatal("expected no expiry without a ttl")
	}
}

func TestTicketHistory_TrimsToLimit(t *testing.T) {
	h, hook := newTestHistory(t, 0)
	ctx := context.Background()
	for i := 0; i < maxTickets+5; i++ {
		b := sampleBooking()
		b.ID = fmt.Sprintf("BMS%010d", i)
		if err := h.Append(ctx, b); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	l := hook.lists[ticketsKey("42")]
	if len(l) != maxTickets {
		t.Fatalf("expected %d entries, got %d", maxTickets, len(l))
	}
}
