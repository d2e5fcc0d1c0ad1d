package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applog "stircraft/internal/log"
	"stircraft/internal/metrics"
	"stircraft/internal/recipes"
	"stircraft/models"
)

// DefaultLetters are fetched when Options.Letters is empty.
const DefaultLetters = "abcdefghijklmnopqrstuvwxyz"

// systemPasswordHash can never match a bcrypt comparison, so the system
// account cannot sign in.
const systemPasswordHash = "!"

// Config identifies the account imported cocktails are attributed to.
type Config struct {
	SystemEmail string
	SystemName  string
}

// Options control a single run.
type Options struct {
	// Limit caps the number of records examined; zero means no cap.
	Limit   int
	Letters string
	// Clear purges previously imported data before fetching.
	Clear bool
}

// Pipeline maps external drink records onto the catalog through the recipe
// service.
type Pipeline struct {
	recipes *recipes.Service
	source  Source
	cfg     Config
	now     func() time.Time
}

func NewPipeline(svc *recipes.Service, source Source, cfg Config) *Pipeline {
	if strings.TrimSpace(cfg.SystemEmail) == "" {
		cfg.SystemEmail = "system@stircraft.local"
	}
	if strings.TrimSpace(cfg.SystemName) == "" {
		cfg.SystemName = "StirCraft Library"
	}
	return &Pipeline{recipes: svc, source: source, cfg: cfg, now: time.Now}
}

// Run imports records letter by letter. Individual record and fetch failures
// are recorded in the report; only failures that prevent the run from
// starting are returned as errors.
func (p *Pipeline) Run(ctx context.Context, opts Options) (report Report, err error) {
	report = Report{RunID: uuid.New(), StartedAt: p.now()}
	logger := applog.With("run", report.RunID.String())
	defer func() {
		report.Duration = p.now().Sub(report.StartedAt)
	}()

	if p.source == nil {
		return report, errNoSource
	}

	owner, err := p.systemUser(ctx)
	if err != nil {
		return report, fmt.Errorf("resolve system user: %w", err)
	}

	if opts.Clear {
		purged, err := p.recipes.PurgeSource(ctx, models.SourceImport)
		if err != nil {
			return report, fmt.Errorf("clear imported data: %w", err)
		}
		report.Purged = &purged
		logger.InfoContext(ctx, "cleared imported data", "cocktails", purged.Cocktails, "ingredients", purged.Ingredients, "vessels", purged.Vessels)
	}

	for _, letter := range normalizeLetters(opts.Letters) {
		if limitReached(opts.Limit, report.Processed) {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		records, err := p.source.FetchByLetter(ctx, letter)
		if err != nil {
			logger.WarnContext(ctx, "fetch failed", "letter", string(letter), "error", err)
			metrics.ImportRecords.WithLabelValues("failed").Inc()
			report.fail(&RecordError{Letter: letter, Err: err})
			continue
		}
		logger.DebugContext(ctx, "fetched records", "letter", string(letter), "count", len(records))

		for _, raw := range records {
			if limitReached(opts.Limit, report.Processed) {
				break
			}
			report.Processed++
			p.importOne(ctx, owner.ID, raw, &report)
		}
	}

	logger.InfoContext(ctx, "import finished", "created", report.Created, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

func (p *Pipeline) importOne(ctx context.Context, ownerID uint, raw RawRecord, report *Report) {
	externalID := raw.ExternalID()
	if externalID != "" {
		exists, err := p.recipes.ExternalIDExists(ctx, externalID)
		if err != nil {
			p.recordFailure(ctx, report, raw, err)
			return
		}
		if exists {
			report.Skipped++
			metrics.ImportRecords.WithLabelValues("skipped").Inc()
			applog.Debug(ctx, "record already imported", "externalID", externalID)
			return
		}
	}

	if err := p.importRecord(ctx, ownerID, raw); err != nil {
		p.recordFailure(ctx, report, raw, err)
		return
	}

	report.Created++
	metrics.ImportRecords.WithLabelValues("created").Inc()
	applog.Debug(ctx, "record imported", "externalID", externalID, "name", raw.Name())
}

func (p *Pipeline) recordFailure(ctx context.Context, report *Report, raw RawRecord, err error) {
	applog.Warn(ctx, "record import failed", "externalID", raw.ExternalID(), "name", raw.Name(), "error", err)
	metrics.ImportRecords.WithLabelValues("failed").Inc()
	report.fail(&RecordError{ExternalID: raw.ExternalID(), Name: raw.Name(), Err: err})
}

// importRecord writes one record inside its own transaction so a failure
// leaves no ingredients or vessels behind.
func (p *Pipeline) importRecord(ctx context.Context, ownerID uint, raw RawRecord) error {
	record, err := parseRecord(raw)
	if err != nil {
		return err
	}

	return p.recipes.Transaction(ctx, func(tx *recipes.Service) error {
		input := recipes.CocktailInput{
			Name:         record.Name,
			Description:  record.Category,
			Instructions: record.Instructions,
			IsAlcoholic:  record.declaredAlcoholic(),
			Color:        string(deriveColor(record.Lines)),
			ImageURL:     record.ImageURL,
			Tags:         deriveTags(record),
			Source:       models.SourceImport,
			ExternalID:   record.ExternalID,
		}

		if record.Glass != "" {
			vessel, err := tx.GetOrCreateVessel(ctx, recipes.VesselInput{Name: record.Glass, Source: models.SourceImport})
			if err != nil {
				return fmt.Errorf("vessel %q: %w", record.Glass, err)
			}
			input.VesselID = vessel.ID
		}

		rows := make([]recipes.ComponentRow, 0, len(record.Lines))
		for i, line := range record.Lines {
			class := Categorize(line.Ingredient)
			ingredient, _, err := tx.GetOrCreateIngredient(ctx, recipes.IngredientInput{
				Name:            line.Ingredient,
				Category:        string(class.Category),
				AlcoholByVolume: class.AlcoholByVolume,
				Source:          models.SourceImport,
			})
			if err != nil {
				return fmt.Errorf("ingredient %q: %w", line.Ingredient, err)
			}

			measure := ParseMeasure(line.Measure)
			rows = append(rows, recipes.ComponentRow{
				Ingredient: strconv.FormatUint(uint64(ingredient.ID), 10),
				Amount:     measure.Amount.String(),
				Unit:       measure.Unit,
				Note:       measure.Note,
				Order:      strconv.Itoa(i),
			})
		}

		_, err := tx.SaveCocktail(ctx, ownerID, 0, input, rows)
		return err
	})
}

// systemUser returns the account imported cocktails belong to, creating it
// with its system lists on first use.
func (p *Pipeline) systemUser(ctx context.Context) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.cfg.SystemEmail))

	var user models.User
	err := p.recipes.DB().WithContext(ctx).Where("lower(email) = ?", email).First(&user).Error
	if err == nil {
		if _, _, err := p.recipes.EnsureSystemLists(ctx, user.ID); err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return p.recipes.CreateUser(ctx, recipes.UserInput{
		Email:        email,
		Name:         p.cfg.SystemName,
		PasswordHash: systemPasswordHash,
	})
}

func normalizeLetters(letters string) []rune {
	if strings.TrimSpace(letters) == "" {
		letters = DefaultLetters
	}
	seen := make(map[rune]struct{})
	out := make([]rune, 0, len(letters))
	for _, r := range strings.ToLower(letters) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func limitReached(limit, processed int) bool {
	return limit > 0 && processed >= limit
}
