package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/insightdelivered/tally-statement-converter/internal/extractor"
	"github.com/insightdelivered/tally-statement-converter/internal/gst"
	"github.com/insightdelivered/tally-statement-converter/internal/metrics"
	"github.com/insightdelivered/tally-statement-converter/internal/models"
	"github.com/insightdelivered/tally-statement-converter/internal/parser"
	"github.com/insightdelivered/tally-statement-converter/internal/voucher"
)

// HeaderSkipped carries the number of transactions left out of an XML download.
const HeaderSkipped = "X-Skipped-Transactions"

// Download names used by the web UI.
const (
	statementXMLName = "tally_import.xml"
	mappingXMLName   = "tally_transactions.xml"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ParseResponse is the JSON response from /parse-csv.
type ParseResponse struct {
	Success bool `json:"success"`
	*models.StatementResult
}

// HealthResponse is the JSON response from /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Engine  string `json:"engine"`
	Version string `json:"version"`
}

type generateXMLRequest struct {
	ParsedData  []voucher.TransactionInput `json:"parsedData"`
	PartyLedger *string                    `json:"partyLedger"`
}

type mappingXMLRequest struct {
	Transactions []voucher.TransactionInput `json:"transactions"`
	BankLedger   string                     `json:"bank_ledger"`
}

// HandlerConfig configures NewHandler. Zero values get defaults.
type HandlerConfig struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// DefaultLedger is used by /generate-xml when the request names none.
	DefaultLedger string
	Version       string
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	logger        *slog.Logger
	metrics       *metrics.Metrics
	defaultLedger string
	version       string

	statementXML *voucher.Builder
	mappingXML   *voucher.Builder
}

// NewHandler wires the handlers to their dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.DefaultLedger == "" {
		cfg.DefaultLedger = "Bank"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		defaultLedger: cfg.DefaultLedger,
		version:       cfg.Version,
		statementXML:  voucher.NewBuilder(voucher.BankLedger(), cfg.Logger),
		mappingXML:    voucher.NewBuilder(voucher.Mapped(), cfg.Logger),
	}
}

// RegisterRoutes sets up the HTTP routes. The conversion endpoints are served
// both at the root, where the web UI calls them, and under /api.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))

	for _, r := range []fiber.Router{app, app.Group("/api")} {
		r.Post("/parse-csv", h.HandleParseCSV)
		r.Post("/generate-xml", h.HandleGenerateXML)
		r.Post("/mapping-xml", h.HandleMappingXML)
		r.Post("/parse-gstr2a", h.HandleParseGSTR2A)
	}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", Engine: "fiber", Version: h.version})
}

// HandleParseCSV parses an uploaded statement (multipart field "file").
func (h *Handler) HandleParseCSV(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded")
	}
	if fh.Filename == "" {
		return fiber.NewError(fiber.StatusBadRequest, "No file selected")
	}
	if fh.Size == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Uploaded file is empty")
	}
	if !extractor.IsSupported(fh.Filename) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Unsupported file %q. Upload a .csv or .xlsx statement.", fh.Filename))
	}

	content, err := readUpload(fh)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := h.parseStatement(fh.Filename, content)
	h.metrics.ObserveStatement(res, err)
	if err != nil {
		h.logger.Warn("statement parse failed",
			slog.String("request_id", requestID(c)),
			slog.String("file", fh.Filename),
			slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	h.logger.Info("statement parsed",
		slog.String("request_id", requestID(c)),
		slog.String("file", fh.Filename),
		slog.Int("transactions", len(res.ParsedData)),
		slog.Int("skipped_rows", len(res.Diagnostics)))
	return c.JSON(ParseResponse{Success: true, StatementResult: res})
}

func (h *Handler) parseStatement(filename string, content []byte) (*models.StatementResult, error) {
	rows, err := extractor.ExtractRows(filename, content)
	if err != nil {
		return nil, err
	}
	return parser.ParseRows(rows, parser.WithLogger(h.logger))
}

// HandleGenerateXML renders parsed statement rows as a Tally import file.
func (h *Handler) HandleGenerateXML(c *fiber.Ctx) error {
	var req generateXMLRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body: "+err.Error())
	}

	ledger := h.defaultLedger
	if req.PartyLedger != nil {
		ledger = *req.PartyLedger
	}
	if len(req.ParsedData) == 0 || ledger == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing transactions or ledger name")
	}

	return h.sendXML(c, h.statementXML, req.ParsedData, ledger, statementXMLName)
}

// HandleMappingXML renders user-mapped transactions as a Tally import file.
func (h *Handler) HandleMappingXML(c *fiber.Ctx) error {
	var req mappingXMLRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body: "+err.Error())
	}

	ledger := strings.TrimSpace(req.BankLedger)
	if len(req.Transactions) == 0 || ledger == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing data or ledger name")
	}

	return h.sendXML(c, h.mappingXML, req.Transactions, ledger, mappingXMLName)
}

func (h *Handler) sendXML(c *fiber.Ctx, b *voucher.Builder, txns []voucher.TransactionInput, ledger, filename string) error {
	res, err := b.Build(txns, ledger)
	if errors.Is(err, voucher.ErrMissingLedger) {
		return fiber.NewError(fiber.StatusBadRequest, "Missing transactions or ledger name")
	}
	if err != nil {
		return err
	}

	mode := b.Options().Name
	h.metrics.ObserveVouchers(mode, res)
	h.logger.Info("tally XML generated",
		slog.String("request_id", requestID(c)),
		slog.String("mode", mode),
		slog.Int("written", res.Written),
		slog.Int("skipped", len(res.Skipped)))

	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	c.Set(HeaderSkipped, strconv.Itoa(len(res.Skipped)))
	return c.Send(res.XML)
}

// HandleParseGSTR2A extracts invoice rows from GSTR-2A CSV exports uploaded as
// "files" (several) or "file" (one).
func (h *Handler) HandleParseGSTR2A(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, gst.ErrNoCSVFiles.Error())
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}

	files := make([]gst.File, 0, len(headers))
	for _, fh := range headers {
		content, err := readUpload(fh)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		files = append(files, gst.File{Name: fh.Filename, Content: content})
	}

	res, err := gst.Extract(files, gst.WithLogger(h.logger))
	var fileErr *gst.FileError
	switch {
	case errors.Is(err, gst.ErrNoCSVFiles), errors.Is(err, gst.ErrNoValidRows), errors.As(err, &fileErr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}

	h.metrics.ObserveGST(res)
	return c.JSON(res)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload %q: %w", fh.Filename, err)
	}
	return content, nil
}
