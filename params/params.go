// Copyright 2025 The Nanobox GCE Adapter Authors
//
//    Licensed under the Apache License, Version 2.0 (the "License"); you may
//    not use this file except in compliance with the License. You may obtain
//    a copy of the License at
//
//         http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
//    WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
//    License for the specific language governing permissions and limitations
//    under the License.

package params

import (
	"time"
)

type InstanceStatus string

const (
	// InstanceRunning is the compute engine status of a booted instance.
	InstanceRunning InstanceStatus = "RUNNING"
	// ServerActive is the status the broker expects for a usable server.
	ServerActive = "active"

	// TransferUnlimited is the only transfer allowance GCE plans advertise.
	TransferUnlimited = "unlimited"
)

// BrokerStatus maps a compute engine status to the status reported
// to the broker. Only RUNNING is translated.
func (s InstanceStatus) BrokerStatus() string {
	if s == InstanceRunning {
		return ServerActive
	}
	return string(s)
}

// MachineType is a machine type descriptor as listed by the provider.
type MachineType struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Zone        string `json:"zone"`
	GuestCPUs   int64  `json:"guest_cpus"`
	MemoryMB    int64  `json:"memory_mb"`
	MaxDiskGB   int64  `json:"max_disk_gb"`
}

// Instance holds the details of a compute instance we care about.
type Instance struct {
	Name        string         `json:"name"`
	Zone        string         `json:"zone"`
	MachineType string         `json:"machine_type"`
	Status      InstanceStatus `json:"status"`
	InternalIP  string         `json:"internal_ip,omitempty"`
	ExternalIP  string         `json:"external_ip,omitempty"`
}

// Operation is the descriptor of an asynchronous provider operation.
type Operation struct {
	Name          string `json:"name"`
	Zone          string `json:"zone,omitempty"`
	OperationType string `json:"operation_type"`
	Status        string `json:"status"`
	TargetLink    string `json:"target_link"`
}

// CreateInstanceParams holds the information needed to create an instance.
type CreateInstanceParams struct {
	Name        string
	Zone        string
	MachineType string
	SSHKey      string
}

// SSHKey is a parsed "<protocol> <blob> <user>" public key.
type SSHKey struct {
	Protocol  string `json:"protocol"`
	PublicKey string `json:"public_key"`
	User      string `json:"user"`
}

// String returns the key in authorized_keys format.
func (s SSHKey) String() string {
	return s.Protocol + " " + s.PublicKey + " " + s.User
}

// MetadataValue returns the key in the format expected by the
// sshKeys metadata item.
func (s SSHKey) MetadataValue() string {
	return s.User + ":" + s.String()
}

// PlanSpec describes the only spec of a catalog plan.
type PlanSpec struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	RAM          int64   `json:"ram"`
	CPU          int64   `json:"cpu"`
	Disk         int64   `json:"disk"`
	Transfer     string  `json:"transfer"`
	DollarsPerHr float64 `json:"dollars_per_hr"`
	DollarsPerMo int64   `json:"dollars_per_mo"`
}

// Plan is a catalog entry for one machine type.
type Plan struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Specs []PlanSpec `json:"specs"`
}

// ZoneCatalog groups the plans available in a zone.
type ZoneCatalog struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Plans []Plan `json:"plans"`
}

// Catalog is the full, ordered catalog document.
type Catalog []ZoneCatalog

// PlanCount returns the total number of plans across all zones.
func (c Catalog) PlanCount() int {
	var count int
	for _, zone := range c {
		count += len(zone.Plans)
	}
	return count
}

// CatalogInfo holds a stored catalog and the time it was stored.
type CatalogInfo struct {
	Catalog   Catalog   `json:"catalog"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialField describes a credential the broker must ask for.
type CredentialField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Meta is the capability descriptor returned to the broker.
type Meta struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	ServerNickName   string            `json:"server_nick_name"`
	DefaultRegion    string            `json:"default_region"`
	DefaultSize      string            `json:"default_size"`
	DefaultPlan      string            `json:"default_plan"`
	CanReboot        bool              `json:"can_reboot"`
	CanRename        bool              `json:"can_rename"`
	CredentialFields []CredentialField `json:"credential_fields"`
	Instructions     string            `json:"instructions"`
}

// Description is returned on the root endpoint.
type Description struct {
	Description string `json:"description"`
}

// ServerCreated is returned after a server was ordered.
type ServerCreated struct {
	ID string `json:"id"`
}

// ServerDetails is the broker view of an instance.
type ServerDetails struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Name       string `json:"name"`
	InternalIP string `json:"internal_ip"`
	ExternalIP string `json:"external_ip"`
}

// KeyCreated is returned after a key was stored.
type KeyCreated struct {
	ID string `json:"id"`
}

// KeyDetails is the broker view of the project SSH key.
type KeyDetails struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PublicKey string `json:"public_key"`
}
