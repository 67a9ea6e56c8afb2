// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// DefaultPort is used when an address carries no port.
const DefaultPort = "443"

// DefaultTimeout bounds a remote fetch when the context has no deadline.
const DefaultTimeout = 10 * time.Second

// FetchRemoteChain connects to address and returns the certificates the
// server presented during the handshake, leaf first.
//
// No verification is done here: the chain is meant to be fed to the bridge
// engine, which runs its own verifier. serverName is sent as SNI; when empty
// the host part of address is used.
func FetchRemoteChain(ctx context.Context, address, serverName string) (*Chain, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		host, port = address, DefaultPort
	}
	if serverName == "" {
		serverName = host
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	dialer := &tls.Dialer{
		Config: &tls.Config{
			ServerName: serverName,
			// The engine verifies, we only want what the server sends.
			InsecureSkipVerify: true,
		},
	}

	target := net.JoinHostPort(host, port)
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	defer conn.Close()

	peerCerts := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		return nil, ErrEmptyChain
	}

	return New(peerCerts...), nil
}
