package youtube

import "errors"

// ErrBadVideoURL indicates no video ID could be parsed from the input.
var ErrBadVideoURL = errors.New("could not parse a video ID")

// ErrVideoUnavailable indicates the video does not exist or is private.
var ErrVideoUnavailable = errors.New("video is unavailable")

// ErrNoCaptions indicates no caption track exists for the video.
var ErrNoCaptions = errors.New("no captions are available for this video")
