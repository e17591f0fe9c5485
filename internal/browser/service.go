// Package browser is the core of flashman: it owns the application state and
// turns user inputs into events for a presentation surface.
//
// Search and Details perform network I/O and may run on any goroutine. Every
// other method mutates state and must be called from the surface goroutine.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ryanm101/flashman/internal/assets"
	"github.com/ryanm101/flashman/internal/catalog"
	"github.com/ryanm101/flashman/internal/collection"
	"github.com/ryanm101/flashman/internal/logging"
	"github.com/ryanm101/flashman/internal/search"
)

// ErrEmptyQuery is returned for a blank search input.
var ErrEmptyQuery = errors.New("empty search query")

// Catalog answers catalog queries. *catalog.Client satisfies it.
type Catalog interface {
	Search(ctx context.Context, query string) ([]catalog.Record, error)
	AddApps(ctx context.Context, id string) ([]catalog.AddApp, error)
}

// Images loads game images. *assets.Fetcher satisfies it.
type Images interface {
	Request(a assets.Asset) *assets.Ready
	Events() <-chan assets.Ready
}

// State is the application state owned by the service.
type State struct {
	Query   string
	Session *search.Session
	Current catalog.Record // game in the details view, nil when closed
	AddApps []catalog.AddApp
	Filter  string
}

// SearchOutcome is the result of a query, applied with ApplySearch.
type SearchOutcome struct {
	Query   string
	Results []catalog.Record
	Err     error
}

// DetailsOutcome is a game with its add-on apps, applied with ShowDetails.
type DetailsOutcome struct {
	Record  catalog.Record
	AddApps []catalog.AddApp
	Err     error
}

// Service coordinates catalog search, pagination, images and the collection.
type Service struct {
	catalog    Catalog
	images     Images
	collection *collection.Store
	policy     search.Policy
	pageSize   int
	state      State
}

// Option configures a Service.
type Option func(*Service)

// WithPageSize sets the number of records per page.
func WithPageSize(n int) Option {
	return func(s *Service) {
		s.pageSize = n
	}
}

// WithPolicy sets the scroll policy.
func WithPolicy(p search.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// New creates a service.
func New(cat Catalog, images Images, store *collection.Store, opts ...Option) *Service {
	s := &Service{
		catalog:    cat,
		images:     images,
		collection: store,
		policy:     search.DefaultPolicy,
		pageSize:   search.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Service) State() State {
	return s.state
}

// Assets returns the stream of images completed in the background.
func (s *Service) Assets() <-chan assets.Ready {
	return s.images.Events()
}

// Init returns the events that render the initial collection.
func (s *Service) Init() []Event {
	return []Event{CollectionChanged{Records: s.collection.Filter(s.state.Filter)}}
}

// Search runs a query against the catalog.
func (s *Service) Search(ctx context.Context, query string) SearchOutcome {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchOutcome{Err: ErrEmptyQuery}
	}

	logging.Info("searching catalog", "query", query)
	results, err := s.catalog.Search(ctx, query)
	if err != nil {
		return SearchOutcome{Query: query, Err: fmt.Errorf("search %q: %w", query, err)}
	}
	return SearchOutcome{Query: query, Results: catalog.InjectPlaceholder(results)}
}

// ApplySearch installs the results of a query and shows the first page.
func (s *Service) ApplySearch(o SearchOutcome) []Event {
	if errors.Is(o.Err, ErrEmptyQuery) {
		return []Event{OperationResult{Kind: Warning, Message: MsgEmptyQuery}}
	}
	if o.Err != nil {
		logging.Error("search failed", "query", o.Query, "error", o.Err)
		return []Event{OperationResult{Kind: Failure, Message: MsgSearchFailed}}
	}

	s.state.Query = o.Query
	s.state.Session = search.NewSession(o.Results, s.pageSize)

	found := len(catalog.Displayable(o.Results))
	events := []Event{ResultsReset{Query: o.Query, Total: found}}
	events = append(events, s.appendPage()...)
	return append(events, OperationResult{Kind: Success, Message: fmt.Sprintf(msgFoundTemplate, found)})
}

// ScrollPositionChanged appends the next page when the policy asks for it.
func (s *Service) ScrollPositionChanged(position, maximum int) []Event {
	sess := s.state.Session
	if sess == nil || sess.Exhausted() || !s.policy.ShouldLoad(position, maximum) {
		return nil
	}
	return s.appendPage()
}

func (s *Service) appendPage() []Event {
	page := s.state.Session.NextPage()
	if len(page) == 0 {
		return nil
	}
	shown := catalog.Displayable(page)
	logging.Debug("appending page", "query", s.state.Query, "page", s.state.Session.Page(), "records", len(shown))

	events := []Event{PageAppended{Records: shown}}
	for _, r := range shown {
		events = s.request(events, assets.Logo(r.ID()))
	}
	return events
}

// AddRequested stores a game in the collection and prefetches its screenshot.
func (s *Service) AddRequested(r catalog.Record) []Event {
	err := s.collection.Add(r)
	switch {
	case errors.Is(err, collection.ErrDuplicate):
		return []Event{OperationResult{Kind: Warning, Message: MsgAlreadyOwned}}
	case err != nil:
		logging.Error("failed to add game", "id", r.ID(), "error", err)
		return []Event{OperationResult{Kind: Failure, Message: MsgSaveFailed}}
	}

	// Keep the screenshot on disk for offline browsing.
	if id := r.ID(); id != "" {
		s.images.Request(assets.Screenshot(id))
	}

	events := []Event{
		OperationResult{Kind: Success, Message: MsgAdded},
		CollectionChanged{Records: s.collection.Filter(s.state.Filter)},
	}
	return append(events, s.refreshDetails(r)...)
}

// RemoveRequested deletes a game from the collection.
func (s *Service) RemoveRequested(r catalog.Record) []Event {
	err := s.collection.Remove(r)
	switch {
	case errors.Is(err, collection.ErrNotFound):
		return []Event{OperationResult{Kind: Failure, Message: MsgNotOwned}}
	case err != nil:
		logging.Error("failed to remove game", "id", r.ID(), "error", err)
		return []Event{OperationResult{Kind: Failure, Message: MsgSaveFailed}}
	}

	events := []Event{
		OperationResult{Kind: Success, Message: MsgRemoved},
		CollectionChanged{Records: s.collection.Filter(s.state.Filter)},
	}
	return append(events, s.refreshDetails(r)...)
}

// FilterChanged narrows the collection list to titles containing text.
func (s *Service) FilterChanged(text string) []Event {
	s.state.Filter = text
	return []Event{CollectionChanged{Records: s.collection.Filter(text)}}
}

// Details loads the add-on apps of a game. A failed lookup still yields the
// record so its details can be shown.
func (s *Service) Details(ctx context.Context, r catalog.Record) DetailsOutcome {
	out := DetailsOutcome{Record: r}
	if r == nil || catalog.IsPlaceholder(r) || r.ID() == "" {
		return out
	}
	apps, err := s.catalog.AddApps(ctx, r.ID())
	if err != nil {
		out.Err = fmt.Errorf("add-on apps for %s: %w", r.ID(), err)
		return out
	}
	out.AddApps = apps
	return out
}

// ShowDetails opens the details view and requests the game's images.
func (s *Service) ShowDetails(o DetailsOutcome) []Event {
	if o.Record == nil || catalog.IsPlaceholder(o.Record) {
		return nil
	}
	if o.Err != nil {
		logging.Warn("showing details without add-on apps", "id", o.Record.ID(), "error", o.Err)
	}

	s.state.Current = o.Record
	s.state.AddApps = o.AddApps

	events := []Event{s.detailsEvent()}
	if id := o.Record.ID(); id != "" {
		events = s.request(events, assets.Logo(id))
		events = s.request(events, assets.Screenshot(id))
	}
	return events
}

// CloseDetails leaves the details view.
func (s *Service) CloseDetails() {
	s.state.Current = nil
	s.state.AddApps = nil
}

// InCollection reports whether r is stored in the collection.
func (s *Service) InCollection(r catalog.Record) bool {
	return s.collection.Contains(r)
}

func (s *Service) refreshDetails(r catalog.Record) []Event {
	if s.state.Current == nil || !catalog.SameGame(s.state.Current, r) {
		return nil
	}
	return []Event{s.detailsEvent()}
}

func (s *Service) detailsEvent() DetailsShown {
	return DetailsShown{
		Record:       s.state.Current,
		AddApps:      s.state.AddApps,
		InCollection: s.collection.Contains(s.state.Current),
	}
}

// request asks for an image, appending an event when it is available at once.
func (s *Service) request(events []Event, a assets.Asset) []Event {
	if r := s.images.Request(a); r != nil {
		return append(events, AssetReady{Ready: *r})
	}
	return events
}
