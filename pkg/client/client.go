// Package client holds the tuned HTTP clients shared by the transports and
// the native extraction backend.
package client

import (
	"net/http"
	"time"
)

// Video uploads go through this client too, hence the long timeout.
var botClient = &http.Client{
	Timeout: 10 * time.Minute,
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	},
}

// Media downloads are bounded by the caller's context, not by a client
// timeout.
var downloadClient = &http.Client{
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       30,
		IdleConnTimeout:       120 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 90 * time.Second,
	},
}

func Bot() *http.Client {
	return botClient
}

func Download() *http.Client {
	return downloadClient
}
