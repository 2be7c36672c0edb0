package errors

import "net/http"

var (
	ErrStationSource = New(
		"STATION_SOURCE_UNAVAILABLE",
		"Failed to fetch docking stations",
		http.StatusBadGateway,
	)

	ErrInsufficientPoints = New(
		"INSUFFICIENT_POINTS",
		"At least 3 distinct non-collinear points are required for a Voronoi diagram",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidDataset = New(
		"INVALID_DATASET",
		"Dataset failed validation",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidEdgeFile = New(
		"INVALID_EDGE_FILE",
		"Edge file is malformed",
		http.StatusUnprocessableEntity,
	)

	ErrSecretStore = New(
		"SECRET_STORE_ERROR",
		"Could not retrieve secret",
		http.StatusInternalServerError,
	)

	ErrSecretKeyMissing = New(
		"SECRET_KEY_MISSING",
		"Secret does not contain the requested key",
		http.StatusInternalServerError,
	)

	ErrNodesNotFound = New(
		"NODES_NOT_FOUND",
		"No candidate node dataset has been published yet",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
