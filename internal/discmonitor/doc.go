// Package discmonitor listens for udev netlink events and reports when
// media appears in the configured optical drive.
package discmonitor
