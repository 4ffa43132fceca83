// Package server implements the MCP (Model Context Protocol) server that
// exposes the image pipeline to interactive clients.
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
// # Image Store
//
// Loaded and derived images live in a session store keyed by generated
// ids. Tools that produce an image store it and answer with its id, kind,
// size and newest log entry. The store holds at most server.max_images
// images; the oldest is dropped first.
//
// # Available Tools
//
// Image store:
//   - image_load, image_blank: create a stored image
//   - image_info, image_log, image_list: inspect stored images
//   - image_delete, image_export: remove or write out an image
//
// Processing:
//   - image_operations: list the pipeline operations
//   - image_apply: run one operation, with optional operand images
//   - image_run: run a recipe of operations
//   - image_load_lut: inspect a lookup-table or 2D-filter document
//   - image_grid: draw a coordinate grid
//
// Statistics:
//   - image_neighborhood, image_line_profile, image_histogram,
//     image_projection: per-channel statistics, optionally with a PNG chart
//   - image_pixel_get, image_pixel_set: read or write one pixel
//   - image_dominant_colors: color palette
//
// Measurement:
//   - image_measure: distances and alignment of points
//   - image_compare_regions: pixel comparison of two regions
//
// # Error Handling
//
// Malformed tools/call params return code -32602. Tool failures return
// code -32000 with the error text in data; unknown methods return -32601.
package server
