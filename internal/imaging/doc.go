// Package imaging provides the raster utilities the classification pipeline
// is built on: decoding and encoding of scanned-page files, grayscale
// conversion, scaled working copies, and integral tables for constant-time
// window statistics.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Rectangles use an
// inclusive top-left and exclusive bottom-right, matching image.Rectangle.
//
// # Grayscale Convention
//
// ToGray averages the color channels rather than applying luma weights. Every
// estimator and processing strategy downstream assumes this convention, so a
// single conversion at the head of the pipeline keeps their numeric behavior
// consistent.
//
// # Supported Formats
//
// PNG, JPEG, GIF, TIFF, and BMP are decoded; PNG, JPEG, BMP, and TIFF are
// encoded. Scanned books are commonly stored as TIFF, so the strip and tiled
// variants handled by golang.org/x/image/tiff are both accepted.
//
// # Thread Safety
//
// All operations are stateless; distinct images may be processed concurrently
// without synchronization.
package imaging
