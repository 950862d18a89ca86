// Package disc reads the table of contents of audio CDs.
//
// Each supported tool (cdparanoia, cd-info, cdcontrol and cdrdao) has a
// scanner that runs one command through an Executor and turns the captured
// text into a toc.Geometry plus a ScanStatus. Disc combines the primary
// cdparanoia scanner with the best advanced scanner installed and computes
// disc ids. The package also owns drive-level helpers: the per-drive lock,
// tray status polling and ejecting.
package disc
