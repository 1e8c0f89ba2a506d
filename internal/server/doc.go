// Package server implements the MCP (Model Context Protocol) server for facade
// segmentation tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the segmentation
// pipeline stage by stage, so an MCP client can inspect the intermediate
// profiles as well as the final split lines, tiles and irreducible facade.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Access:
//   - facade_load: Load image and get metadata
//   - facade_edge_map: Sobel edge map used by the symmetry scan
//
// Pipeline Stages:
//   - facade_gradient_profile: Ver/Hor saliency profiles and their minima
//   - facade_symmetry_profile: per-row/column mirror similarity and offset
//   - facade_segment: split lines and tile subdivisions
//   - facade_irreducible: the folded irreducible facade
//
// Visualization:
//   - facade_render_structure: split or tile overlay
//   - facade_profile_plot: line plot of one profile
//
// Every pipeline tool accepts the same optional configuration overrides
// (offset ranges, sigma, min tile size, candidate limit and policy, edge map
// toggle). Omitted overrides keep the configuration the server was started
// with.
//
// # Caching
//
// Decoded images and their luminance and edge rasters are cached by path.
// Symmetry profiles, the most expensive stage, are cached by path and scan
// parameters, so segmenting the same image with different tile options does
// not rescan it. Both caches persist for the lifetime of the server process.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed arguments or an invalid configuration
//     override, -32000 for any other tool failure, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
