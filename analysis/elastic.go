package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"sort"

	"github.com/rmera/trjstat"
	"gonum.org/v1/gonum/mat"
)

//Boltzmann constant in GPa A^3 / K
const boltzmann = 1.38065e-2

//voigt maps each Voigt index to the pair of cartesian indexes it represents.
var voigt = [6][2]int{{0, 0}, {1, 1}, {2, 2}, {2, 1}, {2, 0}, {1, 0}}

//Moduli contains the isotropic elastic moduli, in GPa, obtained from a
//stiffness tensor with one averaging scheme.
type Moduli struct {
	Bulk    float64
	Young   float64
	Shear   float64
	Poisson float64
}

func newModuli(bulk, shear float64) Moduli {
	return Moduli{
		Bulk:    bulk,
		Shear:   shear,
		Young:   1 / (1/(3*shear) + 1/(9*bulk)),
		Poisson: (1 - 3*shear/(3*bulk+shear)) / 2,
	}
}

//ElasticResult is the result of the elastic constant calculation.
type ElasticResult struct {
	Compliance  *mat.Dense //Voigt notation, GPa^-1
	Stiffness   *mat.Dense //Voigt notation, GPa
	Eigenvalues []complex128
	Voigt       Moduli
	Reuss       Moduli
	Hill        Moduli
	Frames      int
}

//Elastic computes the elastic tensor of a system from the fluctuations of its unit
//cell along an NPT trajectory. The first frame used gives the reference cell h0, and the strain
//of each other frame is e = 1/2 (h0^-T h^T h h0^-1 - I). The compliance tensor is
//S_ijkl = V/(kT) (<e_ij e_kl> - <e_ij><e_kl>), at the temperature given by
//Options.Temperature(), and the stiffness tensor is its inverse.
//The results are only meaningful for long, equilibrated trajectories.
func Elastic(traj trjstat.Traj, options ...*Options) (*ElasticResult, error) {
	o := getOptions(options)
	var ref *mat.Dense
	var epsilons []*mat.Dense
	var volume float64
	frames, err := readFrames(traj, o, func(step int, frame *trjstat.Frame) error {
		if frame.Cell.Shape() == trjstat.Infinite {
			return fmt.Errorf("analysis.Elastic: the frame %d has no unit cell", step)
		}
		m := frame.Cell.Matrix()
		h := mat.NewDense(3, 3, []float64{m[0][0], m[0][1], m[0][2], m[1][0], m[1][1], m[1][2], m[2][0], m[2][1], m[2][2]})
		if ref == nil {
			ref = mat.NewDense(3, 3, nil)
			if err := ref.Inverse(h); err != nil {
				return fmt.Errorf("analysis.Elastic: can't invert the reference cell: %w", err)
			}
			volume = frame.Cell.Volume()
			return nil
		}
		var hr, e mat.Dense
		hr.Mul(h, ref)
		e.Mul(hr.T(), &hr)
		for i := 0; i < 3; i++ {
			e.Set(i, i, e.At(i, i)-1)
		}
		e.Scale(0.5, &e)
		epsilons = append(epsilons, &e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(epsilons) == 0 {
		return nil, errors.New("analysis.Elastic: at least 2 frames are needed")
	}
	vkt := volume / (boltzmann * o.Temperature())
	n := float64(len(epsilons))
	fluctuation := func(ij, kl [2]int) float64 {
		var eij, ekl, eijekl float64
		for _, e := range epsilons {
			a, b := e.At(ij[0], ij[1]), e.At(kl[0], kl[1])
			eij += a
			ekl += b
			eijekl += a * b
		}
		eij /= n
		ekl /= n
		eijekl /= n
		return vkt * (eijekl - eij*ekl)
	}
	S := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		for j := i; j < 6; j++ {
			v := fluctuation(voigt[i], voigt[j])
			S.Set(i, j, v)
			S.Set(j, i, v)
		}
	}
	if math.Abs(mat.Det(S)) < 100*eps {
		return nil, errors.New("analysis.Elastic: the compliance matrix is not invertible")
	}
	C := mat.NewDense(6, 6, nil)
	if err := C.Inverse(S); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("analysis.Elastic: %w", err)
		}
		o.log.Warn().Float64("condition", float64(cond)).Msg("the compliance matrix is ill-conditioned")
	}
	var eig mat.Eigen
	if !eig.Factorize(C, mat.EigenNone) {
		return nil, errors.New("analysis.Elastic: can't obtain the eigenvalues of the stiffness tensor")
	}
	values := eig.Values(nil)
	sort.Slice(values, func(i, j int) bool { return cmplx.Abs(values[i]) < cmplx.Abs(values[j]) })

	A := (C.At(0, 0) + C.At(1, 1) + C.At(2, 2)) / 3
	B := (C.At(1, 2) + C.At(0, 2) + C.At(0, 1)) / 3
	G := (C.At(3, 3) + C.At(4, 4) + C.At(5, 5)) / 3
	a := (S.At(0, 0) + S.At(1, 1) + S.At(2, 2)) / 3
	b := (S.At(1, 2) + S.At(0, 2) + S.At(0, 1)) / 3
	c := (S.At(3, 3) + S.At(4, 4) + S.At(5, 5)) / 3

	ret := &ElasticResult{Compliance: S, Stiffness: C, Eigenvalues: values, Frames: frames}
	ret.Voigt = newModuli((A+2*B)/3, (A-B+3*G)/5)
	ret.Reuss = newModuli(1/(3*a+6*b), 5/(4*a-4*b+3*c))
	ret.Hill = newModuli((ret.Voigt.Bulk+ret.Reuss.Bulk)/2, (ret.Voigt.Shear+ret.Reuss.Shear)/2)
	o.log.Info().Int("frames", frames).Float64("bulk", ret.Hill.Bulk).Msg("elastic constants computed")
	return ret, nil
}

//machine epsilon for float64
var eps = math.Nextafter(1, 2) - 1

//Write writes the upper triangle of the stiffness tensor, its eigenvalues
//and the moduli in each averaging scheme.
func (E *ElasticResult) Write(w io.Writer) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "# stiffness tensor in GPa, from %d frames\n", E.Frames)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if j != 0 {
				b.WriteByte(' ')
			}
			if j >= i {
				fmt.Fprintf(b, "%12.5f", E.Stiffness.At(i, j))
			} else {
				fmt.Fprintf(b, "%12s", "")
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprintln(b, "# eigenvalues of the stiffness tensor (GPa)")
	for _, v := range E.Eigenvalues {
		if imag(v) == 0 {
			fmt.Fprintf(b, "%12.5f\n", real(v))
		} else {
			fmt.Fprintf(b, "%12.5f + %12.5fi\n", real(v), imag(v))
		}
	}
	fmt.Fprintln(b, "# Bulk modulus (GPa) | Young's modulus (GPa) | Shear modulus (GPa) | Poisson's ratio")
	for _, m := range []struct {
		name string
		m    Moduli
	}{{"Voigt", E.Voigt}, {"Reuss", E.Reuss}, {"Hill", E.Hill}} {
		fmt.Fprintf(b, "# %s averaging\n", m.name)
		fmt.Fprintf(b, "%12.5f %12.5f %12.5f %12.5f\n", m.m.Bulk, m.m.Young, m.m.Shear, m.m.Poisson)
	}
	return b.Flush()
}
