package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

type callListRepository struct {
	BaseRepository
}

func NewCallListRepository(base BaseRepository) repository.CallListRepository {
	return &callListRepository{base}
}

func (r *callListRepository) Create(ctx context.Context, list *model.CallList) error {
	query := `
		INSERT INTO liste (id, liste_ismi, aranma_durumu, toplam_kisi, tamamlanan, asistan_mesaji, olusturulma_tarihi)
		VALUES ($1, $2, false, 0, 0, $3, $4)
	`
	list.ID = uuid.New()
	list.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query, list.ID, list.Name, list.AssistantMessage, list.CreatedAt); err != nil {
		return fmt.Errorf("failed to create call list: %w", err)
	}
	return nil
}

func (r *callListRepository) Get(ctx context.Context, id uuid.UUID) (*model.CallList, error) {
	query := `
		SELECT id, liste_ismi, aranma_durumu, toplam_kisi, tamamlanan, asistan_mesaji, olusturulma_tarihi
		FROM liste
		WHERE id = $1
	`
	var list model.CallList
	if err := r.db.GetContext(ctx, &list, query, id); err != nil {
		return nil, notFoundOr(err, "call list")
	}
	return &list, nil
}

func (r *callListRepository) List(ctx context.Context) ([]*model.CallList, error) {
	query := `
		SELECT id, liste_ismi, aranma_durumu, toplam_kisi, tamamlanan, asistan_mesaji, olusturulma_tarihi
		FROM liste
		ORDER BY olusturulma_tarihi DESC
	`
	var lists []*model.CallList
	if err := r.db.SelectContext(ctx, &lists, query); err != nil {
		return nil, fmt.Errorf("failed to list call lists: %w", err)
	}
	return lists, nil
}

// Activate flips aranma_durumu and resets the entries to the waiting state
// so the dialer picks them up from scratch.
func (r *callListRepository) Activate(ctx context.Context, id uuid.UUID, assistantMessage *string) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE liste
			SET aranma_durumu = true, asistan_mesaji = COALESCE($1, asistan_mesaji)
			WHERE id = $2
		`
		result, err := tx.ExecContext(ctx, query, assistantMessage, id)
		if err != nil {
			return fmt.Errorf("failed to activate call list: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return errNotFound("call list")
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE liste_kisi SET arama_durumu = 'bekliyor' WHERE liste_id = $1`, id); err != nil {
			return fmt.Errorf("failed to reset call list entries: %w", err)
		}
		return nil
	})
}

func (r *callListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM liste_kisi WHERE liste_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete call list entries: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM liste WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete call list: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return errNotFound("call list")
		}
		return nil
	})
}

func (r *callListRepository) ListEntries(ctx context.Context, listID uuid.UUID) ([]*model.CallListEntry, error) {
	query := `
		SELECT id, liste_id, isim, soyisim, telefon, arama_durumu, kayit
		FROM liste_kisi
		WHERE liste_id = $1
		ORDER BY soyisim ASC, isim ASC
	`
	var entries []*model.CallListEntry
	if err := r.db.SelectContext(ctx, &entries, query, listID); err != nil {
		return nil, fmt.Errorf("failed to list call list entries: %w", err)
	}
	return entries, nil
}

func (r *callListRepository) AddEntry(ctx context.Context, entry *model.CallListEntry) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		entry.ID = uuid.New()
		if entry.CallStatus == "" {
			entry.CallStatus = model.EntryWaiting
		}
		query := `
			INSERT INTO liste_kisi (id, liste_id, isim, soyisim, telefon, arama_durumu, kayit)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, query,
			entry.ID, entry.ListID, entry.FirstName, entry.LastName,
			entry.Phone, entry.CallStatus, entry.Note); err != nil {
			return fmt.Errorf("failed to add call list entry: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE liste SET toplam_kisi = toplam_kisi + 1 WHERE id = $1`, entry.ListID); err != nil {
			return fmt.Errorf("failed to update call list totals: %w", err)
		}
		return nil
	})
}

func (r *callListRepository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var listID uuid.UUID
		if err := tx.GetContext(ctx, &listID, `SELECT liste_id FROM liste_kisi WHERE id = $1`, id); err != nil {
			return notFoundOr(err, "call list entry")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM liste_kisi WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete call list entry: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE liste SET toplam_kisi = GREATEST(toplam_kisi - 1, 0) WHERE id = $1`, listID); err != nil {
			return fmt.Errorf("failed to update call list totals: %w", err)
		}
		return nil
	})
}
