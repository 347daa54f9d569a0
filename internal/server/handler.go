package server

import (
	"fmt"
	"net/http"
	"strings"

	"resumeparser/internal/errors"
	"resumeparser/internal/extract"
	"resumeparser/internal/formatters"
	"resumeparser/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const apiTracerName = "resumeparser.api"

// toInput classifies the payload through loader. FileData wins over Content.
func (p DocumentPayload) toInput(loader *extract.Loader, defaultName string) (types.FileInput, error) {
	name := strings.TrimSpace(p.FileName)
	if name == "" {
		name = defaultName
	}

	switch {
	case len(p.FileData) > 0:
		return loader.FromBytes(name, p.FileData)
	case strings.TrimSpace(p.Content) != "":
		return loader.FromText(name, p.Content)
	default:
		return types.FileInput{}, errors.NewValidationError(errors.ErrCodeEmptyInput,
			fmt.Sprintf("%s: fileData or content is required", name), nil)
	}
}

func (s *Server) createGenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.Observability.Tracer(apiTracerName).Start(r.Context(), "api.generate")
		defer span.End()

		var req GenerateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			s.failRequest(w, span, "generate", err)
			return
		}

		input, err := req.toInput(s.Loader, "resume")
		if err != nil {
			s.failRequest(w, span, "generate", err)
			return
		}
		span.SetAttributes(
			attribute.String("operation", "generate"),
			attribute.String("request.file_type", string(input.FileType)),
			attribute.Int64("request.file_size", input.FileSize),
		)

		result, err := s.Pipeline.Generator.Process(ctx, input, req.Customizations)
		if err != nil {
			s.failRequest(w, span, "generate", err)
			return
		}

		span.SetAttributes(
			attribute.String("result.method", string(result.Meta.Method)),
			attribute.Int("result.confidence", result.Meta.Confidence),
		)
		s.writeResult(w, r, span, result)
	}
}

func (s *Server) createTailorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.Observability.Tracer(apiTracerName).Start(r.Context(), "api.tailor")
		defer span.End()

		var req TailorRequest
		if err := parseJSONRequest(r, &req); err != nil {
			s.failRequest(w, span, "tailor", err)
			return
		}

		input, err := req.toInput(s.Loader, "resume")
		if err != nil {
			s.failRequest(w, span, "tailor", err)
			return
		}

		jobCtx := req.JobContext
		if req.JobSpecFile != nil {
			if strings.TrimSpace(jobCtx.JobSpecFileURL) != "" {
				s.failRequest(w, span, "tailor", errors.NewValidationError(errors.ErrCodeInvalidJobContext,
					"jobSpecFile and jobContext.jobSpecFileUrl are mutually exclusive", nil))
				return
			}
			jobSpec, err := req.JobSpecFile.toInput(s.Loader, "job-spec")
			if err != nil {
				s.failRequest(w, span, "tailor", err)
				return
			}
			ref, release := s.Uploads.Stage(jobSpec)
			defer release()
			jobCtx.JobSpecFileURL = ref
			if jobCtx.JobSpecSource == "" {
				jobCtx.JobSpecSource = types.JobSpecSourceUpload
			}
		}

		span.SetAttributes(
			attribute.String("operation", "tailor"),
			attribute.String("request.file_type", string(input.FileType)),
			attribute.Int64("request.file_size", input.FileSize),
			attribute.String("request.tone", string(jobCtx.Tone)),
			attribute.Bool("request.job_spec_uploaded", req.JobSpecFile != nil),
		)

		result, err := s.Pipeline.Tailor.Process(ctx, input, jobCtx, req.Customizations)
		if err != nil {
			s.failRequest(w, span, "tailor", err)
			return
		}

		span.SetAttributes(attribute.String("result.method", string(result.Meta.Method)))
		if result.Meta.JobMatchScore != nil {
			span.SetAttributes(attribute.Float64("result.job_match_score", *result.Meta.JobMatchScore))
		}
		s.writeResult(w, r, span, result)
	}
}

func (s *Server) createJobSpecHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.Observability.Tracer(apiTracerName).Start(r.Context(), "api.jobspec")
		defer span.End()

		var req JobSpecRequest
		if err := parseJSONRequest(r, &req); err != nil {
			s.failRequest(w, span, "jobspec", err)
			return
		}

		input, err := req.toInput(s.Loader, "job-spec")
		if err != nil {
			s.failRequest(w, span, "jobspec", err)
			return
		}
		span.SetAttributes(
			attribute.String("operation", "jobspec"),
			attribute.Int64("request.file_size", input.FileSize),
		)

		result, err := s.Pipeline.JobSpec.Process(ctx, input)
		if err != nil {
			s.failRequest(w, span, "jobspec", err)
			return
		}

		span.SetAttributes(attribute.String("result.method", string(result.Meta.Method)))
		s.writeResult(w, r, span, result)
	}
}

// failRequest records err on the span and writes the mapped error response
func (s *Server) failRequest(w http.ResponseWriter, span trace.Span, operation string, err error) {
	span.RecordError(err)
	errType := "internal"
	if appErr, ok := errors.AsAppError(err); ok {
		errType = string(appErr.Type)
	}
	span.SetAttributes(attribute.String("error.type", errType))

	status := writeAppError(w, err)
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, err.Error())
		s.Logger.LogError(err, "Request failed", "operation", operation, "status", status)
		return
	}
	s.Logger.Debug("Request rejected", "operation", operation, "status", status, "error", err.Error())
}

// writeResult renders result in the ?format= requested, JSON by default
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, span trace.Span, result any) {
	format := r.URL.Query().Get("format")
	if format == "" || format == formatters.FormatJSON {
		writeJSON(w, http.StatusOK, result, s.Logger)
		return
	}

	output, err := formatters.GlobalRegistry.Format(result, format)
	if err != nil {
		s.failRequest(w, span, "format", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported format: %s", format), err))
		return
	}

	contentType := "text/plain; charset=utf-8"
	if format == formatters.FormatMarkdown {
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(output)); err != nil {
		s.Logger.LogError(err, "Failed to write response")
	}
}
