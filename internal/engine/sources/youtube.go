package sources

// YouTube implementation is split across two files by responsibility:
//   youtube_api.go: Data API v3 client (search.list + videos.list), quota guard, error envelope
//   thumbnail.go:   thumbnail resolution preference chain
