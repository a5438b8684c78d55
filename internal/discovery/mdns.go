// ABOUTME: mDNS service discovery for the clipscope event feed
// ABOUTME: Advertises a running feed and browses for feeds on the network
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/Resonate-Protocol/clipscope/internal/version"
)

// ServiceType is the mDNS service type of the event feed
const ServiceType = "_clipscope._tcp"

const (
	defaultPath  = "/events"
	queryTimeout = 3 * time.Second
)

// Config holds discovery configuration
type Config struct {
	Instance string // instance name, e.g. "studio-clipscope"
	Port     int
	Path     string // WebSocket path advertised in TXT, default "/events"
}

// Feed describes a discovered event feed
type Feed struct {
	Instance string
	Host     string
	Port     int
	Path     string
	Version  string
}

// Addr returns host:port
func (f *Feed) Addr() string {
	return net.JoinHostPort(f.Host, strconv.Itoa(f.Port))
}

// URL returns the WebSocket URL of the feed
func (f *Feed) URL() string {
	return "ws://" + f.Addr() + f.Path
}

// Manager advertises one feed and browses for others
type Manager struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
	feeds  chan *Feed
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	if config.Path == "" {
		config.Path = defaultPath
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config: config,
		ctx:    ctx,
		cancel: cancel,
		feeds:  make(chan *Feed, 10),
	}
}

// txtRecords lists the TXT fields advertised alongside the service
func (m *Manager) txtRecords() []string {
	return []string{
		"path=" + m.config.Path,
		"version=" + version.Version,
	}
}

// Advertise announces the feed via mDNS until Stop
func (m *Manager) Advertise() error {
	if m.config.Port <= 0 {
		return fmt.Errorf("invalid port %d", m.config.Port)
	}

	ips, err := advertisedIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(m.config.Instance, ServiceType, "", "", m.config.Port, ips, m.txtRecords())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising feed %q on port %d (%s)", m.config.Instance, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		if err := server.Shutdown(); err != nil {
			log.Printf("mDNS shutdown failed: %v", err)
		}
	}()

	return nil
}

// Browse queries for feeds until Stop, delivering each feed once on Feeds
func (m *Manager) Browse() {
	go m.browseLoop()
}

// Feeds returns the channel of discovered feeds
func (m *Manager) Feeds() <-chan *Feed {
	return m.feeds
}

// Stop stops advertising and browsing
func (m *Manager) Stop() {
	m.cancel()
}

func (m *Manager) browseLoop() {
	seen := make(map[string]bool)

	for m.ctx.Err() == nil {
		entries := make(chan *mdns.ServiceEntry, 10)
		done := make(chan struct{})

		go func() {
			defer close(done)
			for entry := range entries {
				feed := feedFromEntry(entry)
				if seen[feed.URL()] {
					continue
				}
				seen[feed.URL()] = true
				log.Printf("Discovered feed %s at %s", feed.Instance, feed.URL())

				select {
				case m.feeds <- feed:
				case <-m.ctx.Done():
				}
			}
		}()

		params := mdns.DefaultParams(ServiceType)
		params.Entries = entries
		params.Timeout = queryTimeout
		params.DisableIPv6 = true

		if err := mdns.Query(params); err != nil {
			log.Printf("mDNS query failed: %v", err)
		}
		close(entries)
		<-done
	}
}

// feedFromEntry builds a Feed from a service entry, preferring IPv4 and
// falling back to the default path when TXT carries none
func feedFromEntry(entry *mdns.ServiceEntry) *Feed {
	feed := &Feed{
		Instance: instanceName(entry.Name),
		Port:     entry.Port,
		Path:     defaultPath,
	}

	switch {
	case entry.AddrV4 != nil:
		feed.Host = entry.AddrV4.String()
	case entry.AddrV6 != nil:
		feed.Host = entry.AddrV6.String()
	default:
		feed.Host = strings.TrimSuffix(entry.Host, ".")
	}

	for _, field := range entry.InfoFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok || value == "" {
			continue
		}
		switch key {
		case "path":
			feed.Path = value
		case "version":
			feed.Version = value
		}
	}
	return feed
}

// instanceName strips the service suffix from a full mDNS name
func instanceName(name string) string {
	if i := strings.Index(name, "."+ServiceType); i >= 0 {
		return name[:i]
	}
	return strings.TrimSuffix(name, ".")
}

// advertisedIPs returns the IPv4 addresses of interfaces that are up
func advertisedIPs() ([]net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var ips []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
				continue
			}
			ips = append(ips, ipnet.IP)
		}
	}

	return ips, nil
}
