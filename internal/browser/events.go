package browser

import (
	"github.com/ryanm101/flashman/internal/assets"
	"github.com/ryanm101/flashman/internal/catalog"
)

// Event is an output of the service for the presentation surface to render.
type Event interface {
	event()
}

// ResultKind classifies an OperationResult for styling.
type ResultKind string

const (
	Success ResultKind = "success"
	Warning ResultKind = "warning"
	Failure ResultKind = "error"
)

// Status messages shown to the user.
const (
	MsgEmptyQuery    = "Search input is empty."
	MsgSearchFailed  = "Failed to fetch search results."
	MsgAdded         = "Game added to your collection."
	MsgAlreadyOwned  = "This game is already in your collection."
	MsgRemoved       = "Game removed from your collection."
	MsgNotOwned      = "Game is not in your collection."
	MsgSaveFailed    = "Failed to save your collection."
	msgFoundTemplate = "Found %d games."
)

// ResultsReset clears the result list before the first page of a new query.
type ResultsReset struct {
	Query string
	Total int
}

// PageAppended adds records to the end of the result list.
type PageAppended struct {
	Records []catalog.Record
}

// CollectionChanged replaces the visible collection list.
type CollectionChanged struct {
	Records []catalog.Record
}

// OperationResult reports the outcome of a user action.
type OperationResult struct {
	Kind    ResultKind
	Message string
}

// DetailsShown opens or refreshes the details view of a game.
type DetailsShown struct {
	Record       catalog.Record
	AddApps      []catalog.AddApp
	InCollection bool
}

// AssetReady delivers an image to display.
type AssetReady struct {
	assets.Ready
}

func (ResultsReset) event()      {}
func (PageAppended) event()      {}
func (CollectionChanged) event() {}
func (OperationResult) event()   {}
func (DetailsShown) event()      {}
func (AssetReady) event()        {}
