package ankiconnect

import (
	"context"

	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// Client implements ports.AnkiClient on top of any AnkiInvoker
type Client struct {
	inv ports.AnkiInvoker
}

var _ ports.AnkiClient = (*Client)(nil)

// NewClient wraps inv
func NewClient(inv ports.AnkiInvoker) *Client {
	return &Client{inv: inv}
}

type noteParams struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
	Options   noteOptions       `json:"options"`
}

type noteOptions struct {
	AllowDuplicate bool `json:"allowDuplicate"`
}

func toNoteParams(notes []domain.NoteSpec) []noteParams {
	out := make([]noteParams, len(notes))
	for i, n := range notes {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		out[i] = noteParams{
			DeckName:  n.DeckName,
			ModelName: n.ModelName,
			Fields:    n.Fields,
			Tags:      tags,
			Options:   noteOptions{AllowDuplicate: n.AllowDuplicate},
		}
	}
	return out
}

func (c *Client) RequestPermission(ctx context.Context) (string, int, error) {
	var res struct {
		Permission string `json:"permission"`
		Version    int    `json:"version"`
	}
	if err := c.inv.Invoke(ctx, "requestPermission", nil, &res); err != nil {
		return "", 0, err
	}
	if res.Permission == "denied" {
		return res.Permission, res.Version, domain.NewError(domain.KindRemoteRejected, "requestPermission", "permission denied by AnkiConnect")
	}
	return res.Permission, res.Version, nil
}

func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	err := c.inv.Invoke(ctx, "version", nil, &v)
	return v, err
}

func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.inv.Invoke(ctx, "deckNames", nil, &names)
	return names, err
}

func (c *Client) CreateDeck(ctx context.Context, name string) (int64, error) {
	var id int64
	err := c.inv.Invoke(ctx, "createDeck", map[string]any{"deck": name}, &id)
	return id, err
}

func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.inv.Invoke(ctx, "modelNames", nil, &names)
	return names, err
}

func (c *Client) ModelFieldNames(ctx context.Context, model string) ([]string, error) {
	var names []string
	err := c.inv.Invoke(ctx, "modelFieldNames", map[string]any{"modelName": model}, &names)
	return names, err
}

func (c *Client) AddNotes(ctx context.Context, notes []domain.NoteSpec) ([]*int64, error) {
	var ids []*int64
	err := c.inv.Invoke(ctx, "addNotes", map[string]any{"notes": toNoteParams(notes)}, &ids)
	return ids, err
}

func (c *Client) CanAddNotes(ctx context.Context, notes []domain.NoteSpec) ([]bool, error) {
	var ok []bool
	if err := c.inv.Invoke(ctx, "canAddNotes", map[string]any{"notes": toNoteParams(notes)}, &ok); err != nil {
		return nil, err
	}
	return ok, nil
}

func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	err := c.inv.Invoke(ctx, "findNotes", map[string]any{"query": query}, &ids)
	return ids, err
}

type noteInfoResult struct {
	NoteID    int64    `json:"noteId"`
	ModelName string   `json:"modelName"`
	Tags      []string `json:"tags"`
	Fields    map[string]struct {
		Value string `json:"value"`
		Order int    `json:"order"`
	} `json:"fields"`
	Cards []int64 `json:"cards"`
}

func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]domain.NoteInfo, error) {
	var raw []noteInfoResult
	if err := c.inv.Invoke(ctx, "notesInfo", map[string]any{"notes": noteIDs}, &raw); err != nil {
		return nil, err
	}
	infos := make([]domain.NoteInfo, 0, len(raw))
	for _, r := range raw {
		// deleted notes come back as empty objects
		if r.NoteID == 0 {
			continue
		}
		fields := make(map[string]string, len(r.Fields))
		for name, f := range r.Fields {
			fields[name] = f.Value
		}
		infos = append(infos, domain.NoteInfo{
			NoteID:    r.NoteID,
			ModelName: r.ModelName,
			Tags:      r.Tags,
			Fields:    fields,
			CardIDs:   r.Cards,
		})
	}
	return infos, nil
}

func (c *Client) UpdateNote(ctx context.Context, update domain.NoteUpdate) error {
	note := map[string]any{
		"id":     update.NoteID,
		"fields": update.Fields,
	}
	if update.Tags != nil {
		note["tags"] = update.Tags
	}
	return c.inv.Invoke(ctx, "updateNote", map[string]any{"note": note}, nil)
}

func (c *Client) DeleteNotes(ctx context.Context, noteIDs []int64) error {
	return c.inv.Invoke(ctx, "deleteNotes", map[string]any{"notes": noteIDs}, nil)
}

func (c *Client) ChangeDeck(ctx context.Context, cardIDs []int64, deck string) error {
	return c.inv.Invoke(ctx, "changeDeck", map[string]any{"cards": cardIDs, "deck": deck}, nil)
}

// SetCardFlag sets the flag of every card; AnkiConnect takes one card per call
func (c *Client) SetCardFlag(ctx context.Context, cardIDs []int64, flag int) error {
	for _, id := range cardIDs {
		params := map[string]any{
			"card":          id,
			"keys":          []string{"flags"},
			"newValues":     []int{flag},
			"warning_check": true,
		}
		if err := c.inv.Invoke(ctx, "setSpecificValueOfCard", params, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) Sync(ctx context.Context) error {
	return c.inv.Invoke(ctx, "sync", nil, nil)
}
