package server

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
)

// Family is the address family of a bound socket.
type Family string

const (
	IPv4 Family = "IPv4"
	IPv6 Family = "IPv6"
)

// Addr is the address a Server is bound to.
type Addr struct {
	Family  Family
	Address string
	Port    int
}

// AddrOf converts a listener address. IPv4-mapped IPv6 addresses are
// reported as IPv4.
func AddrOf(a net.Addr) (Addr, error) {
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return Addr{}, fmt.Errorf("server: unsupported listener address %T", a)
	}

	if ip4 := tcp.IP.To4(); ip4 != nil {
		return Addr{Family: IPv4, Address: ip4.String(), Port: tcp.Port}, nil
	}

	address := "::"
	if len(tcp.IP) > 0 {
		address = tcp.IP.String()
	}
	if tcp.Zone != "" {
		address += "%" + tcp.Zone
	}
	return Addr{Family: IPv6, Address: address, Port: tcp.Port}, nil
}

// Host is the address to dial. Unspecified addresses and unknown families
// become "localhost". IPv6 literals are returned without brackets.
func (a Addr) Host() string {
	host, _ := dialHost(a.Family, a.Address)
	return host
}

// URL is the base URL for a.
func (a Addr) URL() string {
	return BaseURL(a.Family, a.Address, a.Port)
}

// BaseURL builds "http://host[:port]/" for a bound socket address. The port
// is omitted when it is 80 and IPv6 literals are bracketed.
func BaseURL(family Family, address string, port int) string {
	host, bracket := dialHost(family, address)
	if bracket {
		host = "[" + host + "]"
	}
	if port != 80 {
		host += ":" + strconv.Itoa(port)
	}

	u := url.URL{Scheme: "http", Host: host, Path: "/"}
	return u.String()
}

func dialHost(family Family, address string) (host string, bracket bool) {
	if ip, err := netip.ParseAddr(address); err == nil && ip.IsUnspecified() {
		return "localhost", false
	}

	switch family {
	case IPv4:
		if address != "" && address != "0.0.0.0" {
			return address, false
		}
	case IPv6:
		if address != "" && address != "::" {
			return address, true
		}
	}
	return "localhost", false
}
