package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Adriano-luizello/Profeta-sub001/internal/cache"
	"github.com/Adriano-luizello/Profeta-sub001/internal/config"
	"github.com/Adriano-luizello/Profeta-sub001/internal/csvadapter"
	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository"
	"github.com/Adriano-luizello/Profeta-sub001/internal/storage"
)

const maxReportedTransformErrors = 100

type uploadRepository interface {
	repository.AnalysisRepository
	repository.SalesRepository
	repository.SupplierRepository
}

// UploadOptions are the organization-independent import defaults
type UploadOptions struct {
	Limits           csvadapter.UploadLimits
	DecimalSeparator string
	DateFormat       csvadapter.DateFormat
	ValueType        csvadapter.ValueType
	SampleRows       int
	ArchivePrefix    string
}

func DefaultUploadOptions() UploadOptions {
	return UploadOptions{
		Limits:           csvadapter.DefaultUploadLimits(),
		DecimalSeparator: ",",
		DateFormat:       csvadapter.DateAuto,
		ValueType:        csvadapter.ValueQuantity,
		SampleRows:       5,
		ArchivePrefix:    "uploads/",
	}
}

// UploadOptionsFromConfig applies the configured upload limits and defaults
func UploadOptionsFromConfig(app config.AppConfig, archivePrefix string) UploadOptions {
	opts := DefaultUploadOptions()
	if app.MaxUploadSizeMB > 0 {
		opts.Limits.MaxFileSizeBytes = int64(app.MaxUploadSizeMB) << 20
	}
	if app.WarningUploadSizeMB > 0 {
		opts.Limits.WarningFileSizeBytes = int64(app.WarningUploadSizeMB) << 20
	}
	if app.WarningRows > 0 {
		opts.Limits.WarningRows = app.WarningRows
	}
	if app.DetectionSampleRows > 0 {
		opts.SampleRows = app.DetectionSampleRows
	}
	opts.DecimalSeparator = firstNonEmpty(app.DefaultDecimalSep, opts.DecimalSeparator)
	opts.ValueType = firstNonEmpty(csvadapter.ValueType(app.DefaultValueType), opts.ValueType)
	opts.ArchivePrefix = firstNonEmpty(archivePrefix, opts.ArchivePrefix)

	return opts
}

type UploadService struct {
	repo    uploadRepository
	archive storage.ObjectStorage
	cache   cache.SupplyChainCache
	opts    UploadOptions
	now     func() time.Time
}

// NewUploadService wires the import flow. archive may be nil, in which case
// raw uploads are not kept.
func NewUploadService(repo uploadRepository, archive storage.ObjectStorage, cacheImpl cache.SupplyChainCache, opts UploadOptions, now func() time.Time) *UploadService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSupplyChainCache()
	}
	if now == nil {
		now = time.Now
	}
	if opts.SampleRows <= 0 {
		opts.SampleRows = 5
	}
	return &UploadService{repo: repo, archive: archive, cache: cacheImpl, opts: opts, now: now}
}

// DetectResult is the preview shown before the user confirms an import
type DetectResult struct {
	FileName   string                    `json:"file_name"`
	Format     csvadapter.CSVFormat      `json:"format"`
	Headers    []string                  `json:"headers"`
	SampleRows []csvadapter.RawRow       `json:"sample_rows"`
	TotalRows  int                       `json:"total_rows"`
	Preserve   []string                  `json:"preserve_columns"`
	Mapping    *csvadapter.ColumnMapping `json:"suggested_mapping,omitempty"`
	Warnings   []string                  `json:"warnings"`
}

// ImportRequest is one file to import for an organization. Mapping, when
// set, overrides detection.
type ImportRequest struct {
	OrganizationID   string
	FileName         string
	Data             []byte
	Mapping          *csvadapter.ColumnMapping
	ValueType        csvadapter.ValueType
	DateFormat       csvadapter.DateFormat
	DecimalSeparator string
}

type ImportResult struct {
	AnalysisID      string                      `json:"analysis_id"`
	FileName        string                      `json:"file_name"`
	Format          csvadapter.CSVFormat        `json:"format"`
	Unpivot         *csvadapter.UnpivotStats    `json:"unpivot,omitempty"`
	Transform       csvadapter.TransformStats   `json:"transform"`
	TransformErrors []csvadapter.TransformError `json:"transform_errors"`
	Validation      csvadapter.ValidationResult `json:"validation"`
	Products        int                         `json:"products"`
	Warnings        []string                    `json:"warnings"`
}

func (s *UploadService) Detect(fileName string, data []byte) (*DetectResult, error) {
	warnings, sheet, err := s.readSheet(fileName, data)
	if err != nil {
		return nil, err
	}

	format := csvadapter.Detect(sheet.Headers, sheet.Sample(s.opts.SampleRows))
	result := &DetectResult{
		FileName:   fileName,
		Format:     format,
		Headers:    sheet.Headers,
		SampleRows: sheet.Sample(s.opts.SampleRows),
		TotalRows:  len(sheet.Rows),
		Preserve:   []string{},
		Warnings:   warnings,
	}

	switch format.Type {
	case csvadapter.FormatWide:
		result.Preserve = csvadapter.PreserveColumns(sheet.Headers)
	case csvadapter.FormatLong:
		if mapping, ok := csvadapter.MappingFromFormat(format); ok {
			result.Mapping = &mapping
		}
	}

	return result, nil
}

// Import runs read → detect → unpivot → transform → validate → persist for
// one file and records the outcome on a new analysis.
func (s *UploadService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.OrganizationID == "" {
		return nil, fmt.Errorf("%w: organization id is required", ErrFileRejected)
	}

	warnings, sheet, err := s.readSheet(req.FileName, req.Data)
	if err != nil {
		return nil, err
	}

	now := s.now()
	format := csvadapter.Detect(sheet.Headers, sheet.Sample(s.opts.SampleRows))
	result := &ImportResult{FileName: req.FileName, Format: format, Warnings: warnings}

	rows, mapping, unpivotStats, err := s.prepareRows(sheet, format, req)
	if err != nil {
		return result, err
	}
	result.Unpivot = unpivotStats

	transformed := csvadapter.Transform(rows, csvadapter.TransformConfig{
		Mapping:          mapping,
		DateFormat:       firstNonEmpty(req.DateFormat, s.opts.DateFormat),
		DecimalSeparator: firstNonEmpty(req.DecimalSeparator, s.opts.DecimalSeparator),
	}, now)
	result.Transform = transformed.Stats
	result.TransformErrors = transformed.Errors
	if len(result.TransformErrors) > maxReportedTransformErrors {
		result.TransformErrors = result.TransformErrors[:maxReportedTransformErrors]
	}

	result.Validation = csvadapter.Validate(transformed.Data, now)
	if len(transformed.Data) == 0 {
		return result, ErrNoValidRows
	}

	analysis := &domain.Analysis{
		OrganizationID: req.OrganizationID,
		FileName:       req.FileName,
		Format:         string(format.Type),
		Status:         domain.AnalysisProcessing,
	}
	if req.Mapping != nil {
		analysis.Format = "manual"
	}
	if err := s.repo.CreateAnalysis(ctx, analysis); err != nil {
		return result, err
	}
	result.AnalysisID = analysis.ID

	s.archiveUpload(ctx, req, analysis.ID, now)

	products, err := s.persist(ctx, req.OrganizationID, analysis.ID, transformed.Data, unpivotStats != nil)
	if err != nil {
		msg := err.Error()
		if uerr := s.repo.UpdateAnalysisStatus(ctx, analysis.ID, domain.AnalysisFailed, len(transformed.Data), 0, &msg); uerr != nil {
			log.Error().Err(uerr).Str("analysis_id", analysis.ID).Msg("upload: failed to mark analysis failed")
		}
		return result, err
	}
	result.Products = products

	if err := s.repo.UpdateAnalysisStatus(ctx, analysis.ID, domain.AnalysisCompleted, len(transformed.Data), products, nil); err != nil {
		return result, err
	}
	if err := s.cache.InvalidateAnalysis(ctx, analysis.ID); err != nil {
		log.Warn().Err(err).Str("analysis_id", analysis.ID).Msg("upload: cache invalidation failed")
	}

	log.Info().
		Str("analysis_id", analysis.ID).
		Str("file", req.FileName).
		Str("format", analysis.Format).
		Int("rows", len(transformed.Data)).
		Int("products", products).
		Msg("upload: import completed")

	return result, nil
}

// Analysis returns the stored state of an import
func (s *UploadService) Analysis(ctx context.Context, id string) (*domain.Analysis, error) {
	a, err := s.repo.GetAnalysis(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAnalysisNotFound
	}
	return a, err
}

func (s *UploadService) readSheet(fileName string, data []byte) ([]string, *csvadapter.Sheet, error) {
	warnings, err := s.opts.Limits.CheckFile(fileName, int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFileRejected, err)
	}

	sheet, err := csvadapter.Read(fileName, bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFileRejected, err)
	}
	if len(sheet.Rows) == 0 {
		return nil, nil, fmt.Errorf("%w: file has no data rows", ErrFileRejected)
	}

	if warnings == nil {
		warnings = []string{}
	}
	warnings = append(warnings, s.opts.Limits.CheckRows(len(sheet.Rows))...)

	return warnings, sheet, nil
}

// prepareRows turns a sheet into long rows plus the mapping that reads them
func (s *UploadService) prepareRows(sheet *csvadapter.Sheet, format csvadapter.CSVFormat, req ImportRequest) ([]csvadapter.RawRow, csvadapter.ColumnMapping, *csvadapter.UnpivotStats, error) {
	if req.Mapping != nil {
		if !req.Mapping.Complete() {
			return nil, csvadapter.ColumnMapping{}, nil, fmt.Errorf("%w: date, product, quantity and price must be mapped", ErrManualMappingRequired)
		}
		return sheet.Rows, *req.Mapping, nil, nil
	}

	switch format.Type {
	case csvadapter.FormatWide:
		valueType := firstNonEmpty(req.ValueType, s.opts.ValueType)
		// Demand is derived from unit counts; monthly revenue has none
		if valueType == csvadapter.ValueRevenue {
			return nil, csvadapter.ColumnMapping{}, nil, fmt.Errorf("%w: monthly revenue sheets carry no unit quantities", ErrManualMappingRequired)
		}
		preserve := csvadapter.PreserveColumns(sheet.Headers)

		unpivoted, err := csvadapter.Unpivot(sheet.Rows, csvadapter.UnpivotConfig{
			ProductColumn:   format.ProductColumn,
			DateColumns:     format.DateColumns,
			ValueType:       valueType,
			PreserveColumns: preserve,
		})
		if err != nil {
			if errors.Is(err, csvadapter.ErrInvalidConfig) {
				return nil, csvadapter.ColumnMapping{}, nil, fmt.Errorf("%w: %v", ErrManualMappingRequired, err)
			}
			return nil, csvadapter.ColumnMapping{}, nil, err
		}

		rows := make([]csvadapter.RawRow, len(unpivoted.Data))
		for i, r := range unpivoted.Data {
			rows[i] = r.RawRow()
		}
		return rows, csvadapter.UnpivotedMapping(preserve), &unpivoted.Stats, nil

	case csvadapter.FormatLong:
		mapping, ok := csvadapter.MappingFromFormat(format)
		if !ok {
			return nil, csvadapter.ColumnMapping{}, nil, fmt.Errorf("%w: quantity or price column not recognized", ErrManualMappingRequired)
		}
		return sheet.Rows, mapping, nil, nil
	}

	return nil, csvadapter.ColumnMapping{}, nil, ErrManualMappingRequired
}

func (s *UploadService) persist(ctx context.Context, organizationID, analysisID string, rows []domain.CanonicalSalesRow, monthly bool) (int, error) {
	summaries := summarizeProducts(rows, monthly)

	supplierIDs := make(map[string]string)
	products := make([]domain.Product, 0, len(summaries))
	for _, summary := range summaries {
		p := summary.product
		p.AnalysisID = analysisID

		if summary.supplier != "" {
			id, ok := supplierIDs[summary.supplier]
			if !ok {
				supplier, err := s.repo.FindOrCreateSupplier(ctx, organizationID, summary.supplier)
				if err != nil {
					return 0, err
				}
				id = supplier.ID
				supplierIDs[summary.supplier] = id
			}
			p.SupplierID = &id
		}

		products = append(products, p)
	}

	if err := s.repo.SaveSales(ctx, analysisID, rows, products); err != nil {
		return 0, err
	}

	return len(products), nil
}

func (s *UploadService) archiveUpload(ctx context.Context, req ImportRequest, analysisID string, now time.Time) {
	if s.archive == nil {
		return
	}

	key := storage.UploadKey(s.opts.ArchivePrefix, req.OrganizationID, analysisID, req.FileName, now)
	if err := s.archive.UploadObject(ctx, key, req.Data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("upload: archiving raw file failed")
	}
}

func firstNonEmpty[T ~string](values ...T) T {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	var zero T
	return zero
}
