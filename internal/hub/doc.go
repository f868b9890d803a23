// Package hub streams dashboard frames to browsers and takes their input.
//
// Hub is a Server-Sent Events fan-out: every broadcast value is marshalled
// once and queued to each client, and a slow client simply misses frames.
// InputServer is the reverse direction, a websocket that turns pointer,
// resize and selection messages into dashboard calls.
package hub
