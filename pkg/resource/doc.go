// Package resource resolves tile image references into canonical records.
//
// A tile's image is one of three things:
//
//   - an inline data URI ("data:image/png;base64,..."), decoded locally
//   - an absolute http(s) URL, fetched with [httputil.Client]
//   - a path relative to the application's assets ("/symbols/eat.svg"),
//     read from the asset root in sandboxed mode or fetched from the asset
//     base URL otherwise
//
// [Resolver.Resolve] never fails. Any error while loading a reference is
// logged and replaced by the "not found" placeholder so that an export always
// completes. Every call assigns a fresh image id, unique for the whole
// export, which the interchange documents and the archive manifest use to
// cross-reference images.
//
// In embed mode the record carries a data URI. In archive mode it carries an
// archive-relative path:
//
//	inline data   /custom/<board name>/<tile label or id>.<ext>
//	http(s) URL   /<host>/<path>
//	asset path    the path itself, with a leading slash
//
// Sandboxed archive exports omit the path for fetched references; the bytes
// are then stored under the image id (see [Record.ArchiveName]).
package resource
