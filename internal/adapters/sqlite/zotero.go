// Package sqlite reads a local Zotero library straight from its zotero.sqlite file
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// ZoteroReader implements ports.ReferenceLibrary over a zotero.sqlite database
type ZoteroReader struct {
	db   *sql.DB
	path string
}

// Ensure ZoteroReader implements ReferenceLibrary
var _ ports.ReferenceLibrary = (*ZoteroReader)(nil)

// OpenZotero opens the database at path read-only. Zotero keeps the file
// locked while running, so it is opened immutable and never written.
func OpenZotero(path string) (*ZoteroReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, domain.WrapError(domain.KindNotFound, "open zotero database", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&immutable=1", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, domain.WrapError(domain.KindRemoteUnavailable, "open zotero database", err)
	}
	return &ZoteroReader{db: db, path: path}, nil
}

// Close closes the database connection
func (r *ZoteroReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *ZoteroReader) Name() string { return "local" }

// Path returns the database file in use
func (r *ZoteroReader) Path() string { return r.path }

// referenceItems selects citable items, leaving out notes, attachments,
// annotations and anything in the trash
func referenceItems() sq.SelectBuilder {
	return sq.Select("i.itemID", "i.key", "t.typeName", "i.dateAdded", "i.dateModified").
		From("items i").
		Join("itemTypes t ON t.itemTypeID = i.itemTypeID").
		Where(sq.NotEq{"t.typeName": domain.ZoteroChildTypes()}).
		Where("i.itemID NOT IN (SELECT itemID FROM deletedItems)")
}

// SearchItems matches query against every field value and creator name
func (r *ZoteroReader) SearchItems(ctx context.Context, query string, limit int) ([]domain.ZoteroItem, error) {
	like := "%" + query + "%"
	b := referenceItems().
		Where(sq.Or{
			sq.Expr(`i.itemID IN (
				SELECT d.itemID FROM itemData d
				JOIN itemDataValues v ON v.valueID = d.valueID
				WHERE v.value LIKE ?)`, like),
			sq.Expr(`i.itemID IN (
				SELECT ic.itemID FROM itemCreators ic
				JOIN creators c ON c.creatorID = ic.creatorID
				WHERE c.lastName LIKE ? OR c.firstName LIKE ?)`, like, like),
		}).
		OrderBy("i.dateModified DESC")
	return r.queryItems(ctx, withLimit(b, limit))
}

// RecentItems lists items by modification time, newest first
func (r *ZoteroReader) RecentItems(ctx context.Context, limit, offset int) ([]domain.ZoteroItem, error) {
	b := referenceItems().OrderBy("i.dateModified DESC")
	b = withLimit(b, limit)
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return r.queryItems(ctx, b)
}

// GetItem returns the item with key
func (r *ZoteroReader) GetItem(ctx context.Context, key string) (*domain.ZoteroItem, error) {
	items, err := r.queryItems(ctx, referenceItems().Where(sq.Eq{"i.key": key}))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NewError(domain.KindNotFound, "get item", fmt.Sprintf("no item with key %q", key))
	}
	return &items[0], nil
}

// ItemNotes returns the child notes of the item with key
func (r *ZoteroReader) ItemNotes(ctx context.Context, key string) ([]domain.ZoteroNote, error) {
	if _, err := r.GetItem(ctx, key); err != nil {
		return nil, err
	}

	query, args, err := sq.Select("i.key", "n.title", "n.note").
		From("itemNotes n").
		Join("items i ON i.itemID = n.itemID").
		Join("items p ON p.itemID = n.parentItemID").
		Where(sq.Eq{"p.key": key}).
		OrderBy("i.dateAdded").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.ZoteroNote{}
	for rows.Next() {
		var n domain.ZoteroNote
		var title sql.NullString
		if err := rows.Scan(&n.Key, &title, &n.Note); err != nil {
			return nil, err
		}
		n.Title = title.String
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Collections lists every collection with its parent key
func (r *ZoteroReader) Collections(ctx context.Context) ([]domain.ZoteroCollection, error) {
	query, args, err := sq.Select("c.key", "c.collectionName", "p.key").
		From("collections c").
		LeftJoin("collections p ON p.collectionID = c.parentCollectionID").
		OrderBy("c.collectionName").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := []domain.ZoteroCollection{}
	for rows.Next() {
		var c domain.ZoteroCollection
		var parent sql.NullString
		if err := rows.Scan(&c.Key, &c.Name, &parent); err != nil {
			return nil, err
		}
		c.ParentKey = parent.String
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// CollectionItems lists the items in the collection with collectionKey
func (r *ZoteroReader) CollectionItems(ctx context.Context, collectionKey string, limit int) ([]domain.ZoteroItem, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT collectionID FROM collections WHERE key = ?`, collectionKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewError(domain.KindNotFound, "collection items", fmt.Sprintf("no collection with key %q", collectionKey))
	}
	if err != nil {
		return nil, err
	}

	b := referenceItems().
		Join("collectionItems ci ON ci.itemID = i.itemID").
		Where(sq.Eq{"ci.collectionID": id}).
		OrderBy("ci.orderIndex")
	return r.queryItems(ctx, withLimit(b, limit))
}

func withLimit(b sq.SelectBuilder, limit int) sq.SelectBuilder {
	if limit > 0 {
		return b.Limit(uint64(limit))
	}
	return b
}

// queryItems runs b and fills in fields, creators and tags of every row
func (r *ZoteroReader) queryItems(ctx context.Context, b sq.SelectBuilder) ([]domain.ZoteroItem, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	type row struct {
		id   int64
		item domain.ZoteroItem
	}
	var found []row
	for rows.Next() {
		var rw row
		if err := rows.Scan(&rw.id, &rw.item.Key, &rw.item.ItemType, &rw.item.DateAdded, &rw.item.DateModified); err != nil {
			rows.Close()
			return nil, err
		}
		found = append(found, rw)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]domain.ZoteroItem, 0, len(found))
	for _, rw := range found {
		item := rw.item
		if item.Fields, err = r.itemFields(ctx, rw.id); err != nil {
			return nil, err
		}
		item.Title = item.Fields["title"]
		item.Date = zoteroDate(item.Fields["date"])
		if item.Creators, err = r.itemCreators(ctx, rw.id); err != nil {
			return nil, err
		}
		if item.Tags, err = r.itemTags(ctx, rw.id); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *ZoteroReader) itemFields(ctx context.Context, itemID int64) (map[string]string, error) {
	query, args, err := sq.Select("f.fieldName", "v.value").
		From("itemData d").
		Join("fields f ON f.fieldID = d.fieldID").
		Join("itemDataValues v ON v.valueID = d.valueID").
		Where(sq.Eq{"d.itemID": itemID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		fields[name] = value
	}
	return fields, rows.Err()
}

func (r *ZoteroReader) itemCreators(ctx context.Context, itemID int64) ([]domain.Creator, error) {
	query, args, err := sq.Select("ct.creatorType", "c.firstName", "c.lastName", "c.fieldMode").
		From("itemCreators ic").
		Join("creators c ON c.creatorID = ic.creatorID").
		Join("creatorTypes ct ON ct.creatorTypeID = ic.creatorTypeID").
		Where(sq.Eq{"ic.itemID": itemID}).
		OrderBy("ic.orderIndex").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creators []domain.Creator
	for rows.Next() {
		var c domain.Creator
		var first, last sql.NullString
		var fieldMode sql.NullInt64
		if err := rows.Scan(&c.CreatorType, &first, &last, &fieldMode); err != nil {
			return nil, err
		}
		// fieldMode 1 stores a single-field name in lastName
		if fieldMode.Int64 == 1 {
			c.Name = last.String
		} else {
			c.FirstName = first.String
			c.LastName = last.String
		}
		creators = append(creators, c)
	}
	return creators, rows.Err()
}

func (r *ZoteroReader) itemTags(ctx context.Context, itemID int64) ([]string, error) {
	query, args, err := sq.Select("t.name").
		From("itemTags it").
		Join("tags t ON t.tagID = it.tagID").
		Where(sq.Eq{"it.itemID": itemID}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// zoteroDate turns Zotero's multipart "2019-03-00 March 2019" into the
// date as the user typed it
func zoteroDate(raw string) string {
	if len(raw) > 11 && raw[10] == ' ' {
		return strings.TrimSpace(raw[11:])
	}
	return raw
}
